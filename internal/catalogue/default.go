package catalogue

import (
	"github.com/zjrosen/stylex/internal/lexers/bash"
	"github.com/zjrosen/stylex/internal/lexers/cil"
	"github.com/zjrosen/stylex/internal/lexers/cpp"
	"github.com/zjrosen/stylex/internal/lexers/gdscript"
	"github.com/zjrosen/stylex/internal/lexers/julia"
	"github.com/zjrosen/stylex/internal/lexers/lisp"
	"github.com/zjrosen/stylex/internal/lexers/lua"
	"github.com/zjrosen/stylex/internal/lexers/nim"
)

// Builtin returns the modules compiled into stylex.
func Builtin() []Module {
	return []Module{
		{
			Name:         "bash",
			ID:           bash.ID,
			Factory:      bash.New,
			Keywords:     bash.DefaultKeywords,
			Extensions:   []string{".sh", ".bash", ".bsh", ".zsh", ".ksh", ".ebuild", ".eclass"},
			Interpreters: []string{"sh", "bash", "zsh", "ksh", "dash", "ash"},
			ChromaNames:  []string{"Bash"},
			Description:  "Bourne shell family scripts: commands, quoting, expansions and here-documents.",
		},
		{
			Name:        "cil",
			Converges:   true,
			ID:          cil.ID,
			Factory:     cil.New,
			Keywords:    cil.DefaultKeywords,
			Extensions:  []string{".il"},
			Description: "Common Intermediate Language assembly.",
		},
		{
			Name:        "cpp",
			ID:          cpp.ID,
			Factory:     cpp.New,
			Keywords:    cpp.DefaultKeywords,
			Extensions:  []string{".c", ".cc", ".cpp", ".cxx", ".c++", ".h", ".hh", ".hpp", ".hxx", ".inl", ".ipp", ".java", ".js", ".cs"},
			ChromaNames: []string{"C", "C++", "Java", "JavaScript", "C#", "Objective-C"},
			Description: "C, C++ and the curly brace family, with preprocessor tracking.",
		},
		{
			Name:        "cppnocase",
			ID:          cpp.IDNoCase,
			Factory:     cpp.NewNoCase,
			Keywords:    cpp.DefaultKeywords,
			Description: "The cpp lexer with case-insensitive keywords.",
		},
		{
			Name:        "gdscript",
			ID:          gdscript.ID,
			Factory:     gdscript.New,
			Keywords:    gdscript.DefaultKeywords,
			Extensions:  []string{".gd"},
			ChromaNames: []string{"GDScript", "GDScript3"},
			Description: "Godot's GDScript with indentation folding.",
		},
		{
			Name:         "julia",
			Converges:    true,
			ID:           julia.ID,
			Factory:      julia.New,
			Keywords:     julia.DefaultKeywords,
			Extensions:   []string{".jl"},
			Interpreters: []string{"julia"},
			ChromaNames:  []string{"Julia"},
			Description:  "Julia, including string interpolation and Unicode operators.",
		},
		{
			Name:        "lisp",
			Converges:   true,
			ID:          lisp.ID,
			Factory:     lisp.New,
			Keywords:    lisp.DefaultKeywords,
			Extensions:  []string{".lisp", ".lsp", ".cl", ".el"},
			ChromaNames: []string{"Common Lisp", "EmacsLisp"},
			Description: "Common Lisp and Emacs Lisp.",
		},
		{
			Name:         "lua",
			Converges:    true,
			ID:           lua.ID,
			Factory:      lua.New,
			Keywords:     lua.DefaultKeywords,
			Extensions:   []string{".lua", ".rockspec"},
			Interpreters: []string{"lua", "luajit"},
			ChromaNames:  []string{"Lua"},
			Description:  "Lua 5.x with long brackets and eight keyword classes.",
		},
		{
			Name:        "nim",
			Converges:   true,
			ID:          nim.ID,
			Factory:     nim.New,
			Keywords:    nim.DefaultKeywords,
			Extensions:  []string{".nim", ".nims", ".nimble"},
			ChromaNames: []string{"Nim"},
			Description: "Nim with nested comments and raw string identifiers.",
		},
	}
}

// Default returns a catalogue holding every builtin module.
func Default(opts ...Option) *Catalogue {
	c := New(opts...)
	for _, m := range Builtin() {
		c.MustRegister(m)
	}
	return c
}
