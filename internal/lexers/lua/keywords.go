package lua

// DefaultKeywords are the compiled-in word lists, one per slot.
var DefaultKeywords = []string{
	"and break do else elseif end false for function goto if in local nil not or " +
		"repeat return then true until while",
	"_ENV _G _VERSION assert collectgarbage dofile error getmetatable ipairs load " +
		"loadfile next pairs pcall print rawequal rawget rawlen rawset require select " +
		"setmetatable tonumber tostring type warn xpcall",
	"string.byte string.char string.dump string.find string.format string.gmatch " +
		"string.gsub string.len string.lower string.match string.pack string.packsize " +
		"string.rep string.reverse string.sub string.unpack string.upper " +
		"table.concat table.insert table.move table.pack table.remove table.sort " +
		"table.unpack math.abs math.ceil math.cos math.deg math.exp math.floor math.fmod " +
		"math.huge math.log math.max math.maxinteger math.min math.mininteger math.modf " +
		"math.pi math.rad math.random math.randomseed math.sin math.sqrt math.tan " +
		"math.tointeger math.type math.ult utf8.char utf8.charpattern utf8.codepoint " +
		"utf8.codes utf8.len utf8.offset",
	"coroutine.close coroutine.create coroutine.isyieldable coroutine.resume " +
		"coroutine.running coroutine.status coroutine.wrap coroutine.yield " +
		"io.close io.flush io.input io.lines io.open io.output io.popen io.read " +
		"io.stderr io.stdin io.stdout io.tmpfile io.type io.write os.clock os.date " +
		"os.difftime os.execute os.exit os.getenv os.remove os.rename os.setlocale " +
		"os.time os.tmpname",
}
