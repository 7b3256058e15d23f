package julia

// DefaultKeywords are the compiled-in word lists, one per slot.
var DefaultKeywords = []string{
	"baremodule begin break catch const continue do else elseif end export finally for " +
		"function global if import let local macro module public quote return struct try " +
		"using while abstract mutable primitive type where in isa",
	"AbstractArray AbstractChar AbstractDict AbstractFloat AbstractMatrix AbstractRange " +
		"AbstractSet AbstractString AbstractVector Any Array BigFloat BigInt Bool Char " +
		"Complex Dict Expr Float16 Float32 Float64 Function IO Int Int128 Int16 Int32 Int64 " +
		"Int8 Integer Matrix Missing Module NamedTuple Nothing Number Pair Rational Real " +
		"Set Signed String Symbol Tuple Type UInt UInt128 UInt16 UInt32 UInt64 UInt8 " +
		"Union UnitRange Unsigned Vector",
	"true false nothing missing Inf NaN pi im ARGS ENV stdin stdout stderr",
	"abs all any append! collect copy deepcopy eltype enumerate error filter first " +
		"get haskey isempty keys last length map maximum minimum println print push! " +
		"reduce reverse size sort sum typeof values zip",
}
