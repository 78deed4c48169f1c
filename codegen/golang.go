package codegen

import (
	"io"

	"github.com/dave/jennifer/jen"

	"github.com/coregx/lexgen/dfa/bytedfa"
)

// goNames holds the identifiers of one generated Go file.
type goNames struct {
	token       func(name string) string
	names       string
	transitions string
	accept      string
	next        string
	tokenName   string
}

func newGoNames(prefix string) goNames {
	return goNames{
		token:       func(name string) string { return prefix + "Token" + name },
		names:       lowerFirst(prefix + "TokenNames"),
		transitions: lowerFirst(prefix + "Transitions"),
		accept:      lowerFirst(prefix + "Accept"),
		next:        prefix + "Next",
		tokenName:   prefix + "TokenName",
	}
}

func lowerFirst(s string) string {
	if s == "" || s[0] < 'A' || s[0] > 'Z' {
		return s
	}
	return string(s[0]+'a'-'A') + s[1:]
}

func generateGo(w io.Writer, lx Lexer, opts Options) error {
	pkg := opts.Package
	if pkg == "" {
		pkg = "lexer"
	}
	ids := newGoNames(opts.Prefix)
	names := lx.Names()
	b := lx.Bytes()

	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by lexgen. DO NOT EDIT.")

	if len(names) > 0 {
		defs := make([]jen.Code, len(names))
		for i, name := range names {
			if i == 0 {
				defs[i] = jen.Id(ids.token(name)).Op("=").Iota()
			} else {
				defs[i] = jen.Id(ids.token(name))
			}
		}
		f.Comment("Token types, in rule order.")
		f.Const().Defs(defs...)
	}

	quoted := make([]jen.Code, len(names))
	for i, name := range names {
		quoted[i] = jen.Lit(name)
	}
	f.Var().Id(ids.names).Op("=").Index(jen.Op("...")).String().Values(quoted...)

	rows := make([]jen.Code, b.States())
	accept := make([]jen.Code, b.States())
	for i := range rows {
		s := b.State(bytedfa.StateID(i))
		entries := make([]jen.Code, 256)
		for c, next := range s.Table() {
			entries[c] = jen.Lit(int(next))
		}
		rows[i] = jen.Values(entries...)
		tag, ok := s.Tag()
		if !ok {
			tag = -1
		}
		accept[i] = jen.Lit(tag)
	}

	f.Comment("transition table [state][byte] -> next state (-1 = reject)")
	f.Var().Id(ids.transitions).Op("=").Index(jen.Lit(b.States())).Index(jen.Lit(256)).Int32().Values(rows...)

	f.Comment("token type accepted in each state (-1 = none)")
	f.Var().Id(ids.accept).Op("=").Index(jen.Lit(b.States())).Int().Values(accept...)

	f.Comment(ids.tokenName + " returns the rule name of token type t.")
	f.Func().Id(ids.tokenName).Params(jen.Id("t").Int()).String().Block(
		jen.If(jen.Id("t").Op("<").Lit(0).Op("||").Id("t").Op(">=").Len(jen.Id(ids.names))).Block(
			jen.Return(jen.Lit("")),
		),
		jen.Return(jen.Id(ids.names).Index(jen.Id("t"))),
	)

	state := jen.Id("state")
	f.Comment(ids.next + " returns the token type and length of the longest prefix of input")
	f.Comment("matched by a rule. token is -1 when no rule matches.")
	f.Func().Id(ids.next).Params(jen.Id("input").Index().Byte()).Params(jen.Id("token"), jen.Id("n").Int()).Block(
		jen.Id("token").Op("=").Lit(-1),
		jen.Id("state").Op(":=").Lit(0),
		jen.If(jen.Id(ids.accept).Index(state).Op(">=").Lit(0)).Block(
			jen.Id("token").Op("=").Id(ids.accept).Index(state),
		),
		jen.For(jen.Id("i").Op(":=").Lit(0), jen.Id("i").Op("<").Len(jen.Id("input")), jen.Id("i").Op("++")).Block(
			jen.Id("next").Op(":=").Id(ids.transitions).Index(state).Index(jen.Id("input").Index(jen.Id("i"))),
			jen.If(jen.Id("next").Op("<").Lit(0)).Block(jen.Break()),
			jen.Id("state").Op("=").Int().Call(jen.Id("next")),
			jen.If(jen.Id(ids.accept).Index(state).Op(">=").Lit(0)).Block(
				jen.List(jen.Id("token"), jen.Id("n")).Op("=").List(
					jen.Id(ids.accept).Index(state),
					jen.Id("i").Op("+").Lit(1),
				),
			),
		),
		jen.Return(jen.Id("token"), jen.Id("n")),
	)

	return f.Render(w)
}
