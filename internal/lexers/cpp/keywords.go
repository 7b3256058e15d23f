package cpp

// DefaultKeywords are the compiled-in word lists, one per slot.
var DefaultKeywords = []string{
	"alignas alignof and and_eq asm auto bitand bitor bool break case catch char char8_t " +
		"char16_t char32_t class co_await co_return co_yield compl concept const consteval " +
		"constexpr constinit const_cast continue decltype default delete do double " +
		"dynamic_cast else enum explicit export extern false final float for friend goto if " +
		"import inline int long module mutable namespace new noexcept not not_eq nullptr " +
		"operator or or_eq override private protected public register reinterpret_cast " +
		"requires return short signed sizeof static static_assert static_cast struct switch " +
		"template this thread_local throw true try typedef typeid typename union unsigned " +
		"using virtual void volatile wchar_t while xor xor_eq",
	"",
	"a addindex addtogroup anchor arg attention author b brief bug c class code date def " +
		"defgroup deprecated dontinclude e em endcode endhtmlonly endif endlatexonly endlink " +
		"endverbatim enum example exception f$ f[ f] file fn hideinitializer htmlinclude " +
		"htmlonly if image include ingroup internal invariant interface latexonly li line " +
		"link mainpage name namespace nosubgrouping note overload p page par param " +
		"param[in] param[out] post pre ref relates remarks return retval sa section see " +
		"showinitializer since skip skipline struct subsection test throw throws todo " +
		"typedef union until var verbatim verbinclude version warning weakgroup",
	"",
	"",
	"TODO FIXME XXX",
}
