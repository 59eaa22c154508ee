// Package ast defines the abstract syntax tree produced by internal/parser
// and walked by internal/eval.
//
// Every node carries its source Position so diagnostics and the budget
// controller's node-visit accounting (§4.5) can point back at source text.
// Modeled on CWBudde-go-dws's internal/ast.Node/Expression/Statement split,
// trimmed to the spec's grammar (§4.2): no classes, records, loops, or
// user-defined functions.
package ast

import (
	"bytes"
	"fmt"

	"github.com/cwbudde/exprlang/internal/token"
)

// Node is the common interface implemented by every AST node.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() token.Position
}

// Expr is implemented by expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Block is the root of a compiled script: an ordered list of statements
// (§4.6 — this is exactly what the compilation cache stores and shares).
type Block struct {
	Statements []Stmt
}

func (b *Block) TokenLiteral() string {
	if len(b.Statements) == 0 {
		return ""
	}
	return b.Statements[0].TokenLiteral()
}

func (b *Block) Pos() token.Position {
	if len(b.Statements) == 0 {
		return token.Position{}
	}
	return b.Statements[0].Pos()
}

func (b *Block) String() string {
	var out bytes.Buffer
	for _, s := range b.Statements {
		out.WriteString(s.String())
		out.WriteByte('\n')
	}
	return out.String()
}

// ---- Expressions ----

// Literal is a Number, String, Bool, or Null constant.
type Literal struct {
	Token token.Token
	Kind  token.Type // NUMBER, STRING, TRUE, FALSE, NULL, NOW
}

func (l *Literal) exprNode()             {}
func (l *Literal) TokenLiteral() string  { return l.Token.Text }
func (l *Literal) Pos() token.Position   { return l.Token.Pos }
func (l *Literal) String() string {
	if l.Kind == token.STRING {
		return fmt.Sprintf("'%s'", l.Token.Text)
	}
	return l.Token.Text
}

// FieldExpr is a `[field name]` or `[field name:type]` reference.
type FieldExpr struct {
	Token    token.Token // the '[' token, for position
	Name     string
	TypeHint string // "" if no ":type" hint was given
}

func (f *FieldExpr) exprNode()            {}
func (f *FieldExpr) TokenLiteral() string { return f.Token.Text }
func (f *FieldExpr) Pos() token.Position  { return f.Token.Pos }
func (f *FieldExpr) String() string {
	if f.TypeHint != "" {
		return fmt.Sprintf("[%s:%s]", f.Name, f.TypeHint)
	}
	return fmt.Sprintf("[%s]", f.Name)
}

// Identifier is a bare name in expression position. Per §4.2 this denotes a
// field reference equivalent to `[name]` without a type hint — the
// evaluator never treats a bare identifier as a local-variable lookup.
type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) exprNode()            {}
func (i *Identifier) TokenLiteral() string { return i.Token.Text }
func (i *Identifier) Pos() token.Position  { return i.Token.Pos }
func (i *Identifier) String() string       { return i.Value }

// UnaryExpr is `-x` or `!x`.
type UnaryExpr struct {
	Token    token.Token
	Operator string
	Operand  Expr
}

func (u *UnaryExpr) exprNode()            {}
func (u *UnaryExpr) TokenLiteral() string { return u.Token.Text }
func (u *UnaryExpr) Pos() token.Position  { return u.Token.Pos }
func (u *UnaryExpr) String() string {
	return fmt.Sprintf("(%s%s)", u.Operator, u.Operand.String())
}

// BinaryExpr covers all binary operators: or/and/equality/relational/
// additive/multiplicative (§4.2's precedence ladder collapses to one node
// shape, the grammar rule distinguishes only precedence, not node kind).
type BinaryExpr struct {
	Token    token.Token // the operator token
	Left     Expr
	Operator string
	Right    Expr
}

func (b *BinaryExpr) exprNode()            {}
func (b *BinaryExpr) TokenLiteral() string { return b.Token.Text }
func (b *BinaryExpr) Pos() token.Position  { return b.Left.Pos() }
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Operator, b.Right.String())
}

// GroupedExpr is a parenthesized expression, kept as its own node (rather
// than discarded at parse time) so String() reproduces the source's
// parentheses.
type GroupedExpr struct {
	Token token.Token // '('
	Inner Expr
}

func (g *GroupedExpr) exprNode()            {}
func (g *GroupedExpr) TokenLiteral() string { return g.Token.Text }
func (g *GroupedExpr) Pos() token.Position  { return g.Token.Pos }
func (g *GroupedExpr) String() string       { return "(" + g.Inner.String() + ")" }

// CallExpr is a built-in function invocation, e.g. Len([Name]).
type CallExpr struct {
	Token    token.Token // the function name token
	Function string
	Args     []Expr
}

func (c *CallExpr) exprNode()            {}
func (c *CallExpr) TokenLiteral() string { return c.Token.Text }
func (c *CallExpr) Pos() token.Position  { return c.Token.Pos }
func (c *CallExpr) String() string {
	var out bytes.Buffer
	out.WriteString(c.Function)
	out.WriteByte('(')
	for i, a := range c.Args {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(a.String())
	}
	out.WriteByte(')')
	return out.String()
}

// ---- Statements ----

// ExprStmt is a bare expression used as a statement. The parser produces it
// for any statement that does not start with a statement keyword; the
// evaluator evaluates the expression and discards its value.
type ExprStmt struct {
	Token token.Token
	Expr  Expr
}

func (e *ExprStmt) stmtNode()            {}
func (e *ExprStmt) TokenLiteral() string { return e.Token.Text }
func (e *ExprStmt) Pos() token.Position  { return e.Token.Pos }
func (e *ExprStmt) String() string       { return e.Expr.String() }

// SetStmt assigns to a mutable field: `set(target, expr)`, where target is
// either a bare IDENT or a bracketed `[field]`/`[field:type]` reference
// (§4.2, §4.3 — Set(fieldName, valueExpr, typeHint?)).
type SetStmt struct {
	Token     token.Token // 'set'
	Field     string      // the target field's name, bare or bracketed
	TypeHint  string      // "" if no ":type" hint was given
	Bracketed bool        // true if the target was written as [field], not IDENT
	Value     Expr
}

func (s *SetStmt) stmtNode()            {}
func (s *SetStmt) TokenLiteral() string { return s.Token.Text }
func (s *SetStmt) Pos() token.Position  { return s.Token.Pos }
func (s *SetStmt) String() string {
	target := s.Field
	if s.Bracketed {
		if s.TypeHint != "" {
			target = fmt.Sprintf("[%s:%s]", s.Field, s.TypeHint)
		} else {
			target = fmt.Sprintf("[%s]", s.Field)
		}
	}
	return fmt.Sprintf("set(%s, %s)", target, s.Value.String())
}

// LocalStmt is `local { ... }`: a nested block whose inner `return_local`
// is swallowed at its close rather than propagating past it (§3, §4.4).
type LocalStmt struct {
	Token token.Token // 'local'
	Body  *Block
}

func (l *LocalStmt) stmtNode()            {}
func (l *LocalStmt) TokenLiteral() string { return l.Token.Text }
func (l *LocalStmt) Pos() token.Position  { return l.Token.Pos }
func (l *LocalStmt) String() string {
	return fmt.Sprintf("local {\n%s}", l.Body.String())
}

// MsgStmt emits a diagnostic message at an optional level: `msg(text)` or
// `msg(text, level)`. Text and Level must be literal STRING tokens at
// parse time (§4.2), so they are stored as plain strings rather than Expr.
type MsgStmt struct {
	Token   token.Token // 'msg'
	Text    string
	Level   string // "" if no level argument was given
	HasText bool   // always true once parsed; kept for zero-value clarity
}

func (m *MsgStmt) stmtNode()            {}
func (m *MsgStmt) TokenLiteral() string { return m.Token.Text }
func (m *MsgStmt) Pos() token.Position  { return m.Token.Pos }
func (m *MsgStmt) String() string {
	if m.Level != "" {
		return fmt.Sprintf("msg(%q, %q)", m.Text, m.Level)
	}
	return fmt.Sprintf("msg(%q)", m.Text)
}

// ReturnKind distinguishes a bare `return` from a bare `return_local`.
type ReturnKind int

const (
	ReturnReturn ReturnKind = iota
	ReturnReturnLocal
)

// ReturnStmt is a bare keyword statement with no operand: `return` or
// `return_local` (§3, §4.2 — Return(kind∈{Return, ReturnLocal})).
type ReturnStmt struct {
	Token token.Token
	Kind  ReturnKind
}

func (r *ReturnStmt) stmtNode()            {}
func (r *ReturnStmt) TokenLiteral() string { return r.Token.Text }
func (r *ReturnStmt) Pos() token.Position  { return r.Token.Pos }
func (r *ReturnStmt) String() string {
	if r.Kind == ReturnReturnLocal {
		return "return_local"
	}
	return "return"
}

// AssertStmt is `assert(cond, action, message[, level])` (§3, §4.2, §4.4).
// Action, Message, and Level are literal STRING tokens at parse time.
type AssertStmt struct {
	Token     token.Token
	Condition Expr
	Action    string
	Message   string
	Level     string // "" if no explicit level given
}

func (a *AssertStmt) stmtNode()            {}
func (a *AssertStmt) TokenLiteral() string { return a.Token.Text }
func (a *AssertStmt) Pos() token.Position  { return a.Token.Pos }
func (a *AssertStmt) String() string {
	if a.Level != "" {
		return fmt.Sprintf("assert(%s, %q, %q, %q)", a.Condition.String(), a.Action, a.Message, a.Level)
	}
	return fmt.Sprintf("assert(%s, %q, %q)", a.Condition.String(), a.Action, a.Message)
}

// IfStmt is `if(cond) { ... } elseif(cond) { ... } else { ... }`.
type IfStmt struct {
	Token     token.Token // 'if'
	Condition Expr
	Then      *Block
	ElseIfs   []*ElseIfClause
	Else      *Block // nil if no else branch
}

func (i *IfStmt) stmtNode()            {}
func (i *IfStmt) TokenLiteral() string { return i.Token.Text }
func (i *IfStmt) Pos() token.Position  { return i.Token.Pos }
func (i *IfStmt) String() string {
	var out bytes.Buffer
	fmt.Fprintf(&out, "if(%s) {\n%s}", i.Condition.String(), i.Then.String())
	for _, ei := range i.ElseIfs {
		fmt.Fprintf(&out, " elseif(%s) {\n%s}", ei.Condition.String(), ei.Body.String())
	}
	if i.Else != nil {
		fmt.Fprintf(&out, " else {\n%s}", i.Else.String())
	}
	return out.String()
}

// ElseIfClause is one `elseif` arm of an IfStmt.
type ElseIfClause struct {
	Condition Expr
	Body      *Block
}
