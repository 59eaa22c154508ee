// Package parser implements a recursive-descent parser over the grammar in
// spec §4.2. Unlike CWBudde-go-dws's Pratt parser (precedence climbing via a
// prefix/infix function table), this grammar already factors precedence
// into its production rules (or_expr > and_expr > eq_expr > rel_expr >
// add_expr > mul_expr > un_expr > primary), so each precedence level gets
// its own straightforward left-associative loop — the teacher's
// cursor/error-accumulation/synchronize shape is kept, its Pratt table is
// not.
package parser

import (
	"fmt"

	"github.com/cwbudde/exprlang/internal/ast"
	"github.com/cwbudde/exprlang/internal/errors"
	"github.com/cwbudde/exprlang/internal/lexer"
	"github.com/cwbudde/exprlang/internal/token"
)

// Parser turns a token stream into an *ast.Block, accumulating errors
// instead of stopping at the first one (mirrors the teacher's behavior).
//
// It keeps only a single token of lookahead (cur), not the teacher's
// two-token buffer: the grammar never needs more, and single lookahead lets
// the parser call the lexer's field-name submode (ReadFieldName/Advance)
// directly without a second buffered token getting out of sync with the
// lexer's actual stream position.
type Parser struct {
	lex    *lexer.Lexer
	source string

	cur token.Token

	errs      []*errors.EngineError
	nodeCount int
}

// New creates a Parser over src.
func New(src string, enableComments bool) *Parser {
	p := &Parser{lex: lexer.New(src, enableComments), source: src}
	p.advance()
	return p
}

// Errors returns all errors accumulated during parsing.
func (p *Parser) Errors() []*errors.EngineError { return p.errs }

func (p *Parser) addError(pos token.Position, format string, args ...any) {
	p.errs = append(p.errs, errors.New(errors.CodeParseError, pos, fmt.Sprintf(format, args...)).WithSource(p.source))
}

func (p *Parser) advance() {
	tok, err := p.lex.NextToken()
	if err != nil {
		p.errs = append(p.errs, errors.New(errors.CodeLexError, err.Pos, err.Message).WithSource(p.source))
		// substitute an ILLEGAL token and keep going so one bad character
		// doesn't stall the whole parse.
		tok = token.New(token.ILLEGAL, "", err.Pos)
	}
	p.cur = tok
}

func (p *Parser) curIs(t token.Type) bool { return p.cur.Type == t }

func (p *Parser) expect(t token.Type) (token.Token, bool) {
	if !p.curIs(t) {
		p.addError(p.cur.Pos, "expected %s, got %s", t, p.cur.Type)
		return p.cur, false
	}
	tok := p.cur
	p.advance()
	return tok, true
}

// skipNewlines consumes any run of NEWLINE tokens; used between statements
// and wherever the grammar allows blank lines.
func (p *Parser) skipNewlines() {
	for p.curIs(token.NEWLINE) {
		p.advance()
	}
}

// countNode tallies one more AST node produced by this parse. The
// facade (§4.7), not the parser, decides whether the total exceeds
// Options.maxNodes — the parser itself has no node-count limit of its own.
func (p *Parser) countNode() bool {
	p.nodeCount++
	return true
}

// NodeCount returns the total number of AST nodes produced by this parse,
// for the facade's post-parse Options.maxNodes check (§4.2, §4.5, §4.7).
func (p *Parser) NodeCount() int { return p.nodeCount }

// ParseScript parses an entire script: a sequence of statements separated by
// newlines, ending at EOF. Returns the parsed Block even on error so a host
// can inspect partial structure, but callers must check Errors() first.
func (p *Parser) ParseScript() *ast.Block {
	return p.parseBlockUntil(token.EOF)
}

// parseBlockUntil parses statements until the current token is `stop` (not
// consumed) or EOF, used both for the top-level script and for `{ ... }`
// bodies (where stop is RBRACE).
func (p *Parser) parseBlockUntil(stop token.Type) *ast.Block {
	block := &ast.Block{}
	p.skipNewlines()
	for !p.curIs(stop) && !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		} else {
			p.synchronize()
		}
		p.skipNewlines()
	}
	return block
}

// synchronize recovers from a parse error by skipping to the next statement
// boundary (NEWLINE, '}', or EOF), mirroring the teacher's panic-mode
// recovery so one bad statement doesn't cascade into spurious errors for
// the rest of the script.
func (p *Parser) synchronize() {
	for !p.curIs(token.NEWLINE) && !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		p.advance()
	}
}

func (p *Parser) parseStatement() ast.Stmt {
	if !p.countNode() {
		return nil
	}
	switch p.cur.Type {
	case token.SET:
		return p.parseSetStmt()
	case token.LOCAL:
		return p.parseLocalStmt()
	case token.MSG:
		return p.parseMsgStmt()
	case token.RETURN:
		return p.parseReturnStmt()
	case token.RETURN_LOCAL:
		return p.parseReturnLocalStmt()
	case token.ASSERT:
		return p.parseAssertStmt()
	case token.IF:
		return p.parseIfStmt()
	default:
		return p.parseExprStmt()
	}
}

// parseSetStmt parses `set(target, expr)` where target is an IDENT or a
// bracketed `[field]`/`[field:type]` reference (§4.2).
func (p *Parser) parseSetStmt() ast.Stmt {
	tok := p.cur
	p.advance() // 'set'
	if _, ok := p.expect(token.LPAREN); !ok {
		return nil
	}

	stmt := &ast.SetStmt{Token: tok}
	switch p.cur.Type {
	case token.IDENT:
		stmt.Field = p.cur.Text
		p.advance()
	case token.LBRACK:
		field := p.parseFieldExpr()
		if field == nil {
			return nil
		}
		stmt.Field = field.Name
		stmt.TypeHint = field.TypeHint
		stmt.Bracketed = true
	default:
		p.addError(p.cur.Pos, "expected a field target, got %s", p.cur.Type)
		return nil
	}

	if _, ok := p.expect(token.COMMA); !ok {
		return nil
	}
	value := p.parseExpr()
	if value == nil {
		return nil
	}
	stmt.Value = value
	if _, ok := p.expect(token.RPAREN); !ok {
		return nil
	}
	return stmt
}

// parseLocalStmt parses `local { ... }`: a nested block, not a named
// variable declaration (§3, §4.4).
func (p *Parser) parseLocalStmt() ast.Stmt {
	tok := p.cur
	p.advance() // 'local'
	body := p.parseBraceBlock()
	if body == nil {
		return nil
	}
	return &ast.LocalStmt{Token: tok, Body: body}
}

// parseLiteralStringArg parses one STRING-literal argument in call-form
// position; a non-literal is a parse-time TypeMismatch (§4.2).
func (p *Parser) parseLiteralStringArg() (string, bool) {
	if !p.curIs(token.STRING) {
		p.errs = append(p.errs, errors.New(errors.CodeTypeMismatch, p.cur.Pos,
			fmt.Sprintf("expected a literal string argument, got %s", p.cur.Type)).WithSource(p.source))
		return "", false
	}
	text := p.cur.Text
	p.advance()
	return text, true
}

// parseMsgStmt parses `msg(text)` or `msg(text, level)` — text first, level
// optional second, both literal strings (§3, §4.2).
func (p *Parser) parseMsgStmt() ast.Stmt {
	tok := p.cur
	p.advance() // 'msg'
	if _, ok := p.expect(token.LPAREN); !ok {
		return nil
	}

	text, ok := p.parseLiteralStringArg()
	if !ok {
		return nil
	}
	stmt := &ast.MsgStmt{Token: tok, Text: text, HasText: true}

	if p.curIs(token.COMMA) {
		p.advance()
		level, ok := p.parseLiteralStringArg()
		if !ok {
			return nil
		}
		stmt.Level = level
	}

	if _, ok := p.expect(token.RPAREN); !ok {
		return nil
	}
	return stmt
}

// parseReturnStmt parses the bare keyword `return` (no operand, §3, §4.2).
func (p *Parser) parseReturnStmt() ast.Stmt {
	tok := p.cur
	p.advance() // 'return'
	return &ast.ReturnStmt{Token: tok, Kind: ast.ReturnReturn}
}

// parseReturnLocalStmt parses the bare keyword `return_local` (no operand,
// §3, §4.2).
func (p *Parser) parseReturnLocalStmt() ast.Stmt {
	tok := p.cur
	p.advance() // 'return_local'
	return &ast.ReturnStmt{Token: tok, Kind: ast.ReturnReturnLocal}
}

// parseAssertStmt parses `assert(cond, action, message[, level])` — action
// and message are mandatory literal strings, level is an optional third
// literal string (§3, §4.2, §4.4).
func (p *Parser) parseAssertStmt() ast.Stmt {
	tok := p.cur
	p.advance() // 'assert'
	if _, ok := p.expect(token.LPAREN); !ok {
		return nil
	}

	cond := p.parseExpr()
	if cond == nil {
		return nil
	}
	if _, ok := p.expect(token.COMMA); !ok {
		return nil
	}
	action, ok := p.parseLiteralStringArg()
	if !ok {
		return nil
	}
	if _, ok := p.expect(token.COMMA); !ok {
		return nil
	}
	message, ok := p.parseLiteralStringArg()
	if !ok {
		return nil
	}

	stmt := &ast.AssertStmt{Token: tok, Condition: cond, Action: action, Message: message}
	if p.curIs(token.COMMA) {
		p.advance()
		level, ok := p.parseLiteralStringArg()
		if !ok {
			return nil
		}
		stmt.Level = level
	}

	if _, ok := p.expect(token.RPAREN); !ok {
		return nil
	}
	return stmt
}

// parseIfStmt parses `if(cond) {...} elseif(cond) {...}* else {...}?`; the
// condition is always parenthesized (§4.2).
func (p *Parser) parseIfStmt() ast.Stmt {
	tok := p.cur
	p.advance() // 'if'
	cond := p.parseParenExpr()
	if cond == nil {
		return nil
	}
	then := p.parseBraceBlock()
	if then == nil {
		return nil
	}
	stmt := &ast.IfStmt{Token: tok, Condition: cond, Then: then}

	for p.curIs(token.ELSEIF) {
		p.advance()
		eiCond := p.parseParenExpr()
		if eiCond == nil {
			return nil
		}
		body := p.parseBraceBlock()
		if body == nil {
			return nil
		}
		stmt.ElseIfs = append(stmt.ElseIfs, &ast.ElseIfClause{Condition: eiCond, Body: body})
	}

	if p.curIs(token.ELSE) {
		p.advance()
		body := p.parseBraceBlock()
		if body == nil {
			return nil
		}
		stmt.Else = body
	}

	return stmt
}

// parseParenExpr parses `( expr )`, the mandatory parenthesized condition
// form `if`/`elseif` use (§4.2).
func (p *Parser) parseParenExpr() ast.Expr {
	if _, ok := p.expect(token.LPAREN); !ok {
		return nil
	}
	inner := p.parseExpr()
	if inner == nil {
		return nil
	}
	if _, ok := p.expect(token.RPAREN); !ok {
		return nil
	}
	return inner
}

func (p *Parser) parseBraceBlock() *ast.Block {
	if _, ok := p.expect(token.LBRACE); !ok {
		return nil
	}
	block := p.parseBlockUntil(token.RBRACE)
	if _, ok := p.expect(token.RBRACE); !ok {
		return nil
	}
	return block
}

func (p *Parser) parseExprStmt() ast.Stmt {
	tok := p.cur
	e := p.parseExpr()
	if e == nil {
		return nil
	}
	return &ast.ExprStmt{Token: tok, Expr: e}
}

// ---- Expressions, one function per precedence level ----

func (p *Parser) parseExpr() ast.Expr { return p.parseOr() }

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for left != nil && p.curIs(token.OR) {
		opTok := p.cur
		p.advance()
		right := p.parseAnd()
		if right == nil {
			return nil
		}
		if !p.countNode() {
			return nil
		}
		left = &ast.BinaryExpr{Token: opTok, Left: left, Operator: "||", Right: right}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseEquality()
	for left != nil && p.curIs(token.AND) {
		opTok := p.cur
		p.advance()
		right := p.parseEquality()
		if right == nil {
			return nil
		}
		if !p.countNode() {
			return nil
		}
		left = &ast.BinaryExpr{Token: opTok, Left: left, Operator: "&&", Right: right}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expr {
	left := p.parseRelational()
	for left != nil && (p.curIs(token.EQ) || p.curIs(token.NE)) {
		opTok := p.cur
		op := opTok.Type.String()
		p.advance()
		right := p.parseRelational()
		if right == nil {
			return nil
		}
		if !p.countNode() {
			return nil
		}
		left = &ast.BinaryExpr{Token: opTok, Left: left, Operator: op, Right: right}
	}
	return left
}

func (p *Parser) parseRelational() ast.Expr {
	left := p.parseAdditive()
	for left != nil && (p.curIs(token.LT) || p.curIs(token.LE) || p.curIs(token.GT) || p.curIs(token.GE)) {
		opTok := p.cur
		op := opTok.Type.String()
		p.advance()
		right := p.parseAdditive()
		if right == nil {
			return nil
		}
		if !p.countNode() {
			return nil
		}
		left = &ast.BinaryExpr{Token: opTok, Left: left, Operator: op, Right: right}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for left != nil && (p.curIs(token.PLUS) || p.curIs(token.MINUS)) {
		opTok := p.cur
		op := opTok.Type.String()
		p.advance()
		right := p.parseMultiplicative()
		if right == nil {
			return nil
		}
		if !p.countNode() {
			return nil
		}
		left = &ast.BinaryExpr{Token: opTok, Left: left, Operator: op, Right: right}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for left != nil && (p.curIs(token.ASTERISK) || p.curIs(token.SLASH) || p.curIs(token.PERCENT)) {
		opTok := p.cur
		op := opTok.Type.String()
		p.advance()
		right := p.parseUnary()
		if right == nil {
			return nil
		}
		if !p.countNode() {
			return nil
		}
		left = &ast.BinaryExpr{Token: opTok, Left: left, Operator: op, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if p.curIs(token.NOT) || p.curIs(token.MINUS) {
		opTok := p.cur
		op := opTok.Type.String()
		p.advance()
		operand := p.parseUnary()
		if operand == nil {
			return nil
		}
		if !p.countNode() {
			return nil
		}
		return &ast.UnaryExpr{Token: opTok, Operator: op, Operand: operand}
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.Expr {
	if !p.countNode() {
		return nil
	}
	switch p.cur.Type {
	case token.NUMBER:
		tok := p.cur
		p.advance()
		return &ast.Literal{Token: tok, Kind: token.NUMBER}
	case token.STRING:
		tok := p.cur
		p.advance()
		return &ast.Literal{Token: tok, Kind: token.STRING}
	case token.TRUE, token.FALSE, token.NULL, token.NOW:
		tok := p.cur
		kind := tok.Type
		p.advance()
		return &ast.Literal{Token: tok, Kind: kind}
	case token.LBRACK:
		return p.parseFieldExpr()
	case token.LPAREN:
		tok := p.cur
		p.advance()
		inner := p.parseExpr()
		if inner == nil {
			return nil
		}
		if _, ok := p.expect(token.RPAREN); !ok {
			return nil
		}
		return &ast.GroupedExpr{Token: tok, Inner: inner}
	case token.IDENT:
		return p.parseIdentOrCall()
	default:
		p.addError(p.cur.Pos, "unexpected token %s in expression", p.cur.Type)
		return nil
	}
}

// parseFieldExpr parses `[ name ]` or `[ name : type ]`. It switches the
// lexer into field-name submode immediately after consuming '[' (§4.1).
func (p *Parser) parseFieldExpr() *ast.FieldExpr {
	tok := p.cur // '['
	if !p.curIs(token.LBRACK) {
		p.addError(p.cur.Pos, "expected '[', got %s", p.cur.Type)
		return nil
	}

	nameTok, lexErr := p.lex.ReadFieldName()
	if lexErr != nil {
		p.errs = append(p.errs, errors.New(errors.CodeLexError, lexErr.Pos, lexErr.Message).WithSource(p.source))
		return nil
	}

	field := &ast.FieldExpr{Token: tok, Name: nameTok.Text}

	delim := p.lex.PeekDelimiter()
	if delim == ':' {
		if _, lerr := p.lex.Advance(); lerr != nil { // consume ':'
			p.errs = append(p.errs, errors.New(errors.CodeLexError, lerr.Pos, lerr.Message).WithSource(p.source))
			return nil
		}
		typeTok, terr := p.lex.ReadFieldName()
		if terr != nil {
			p.errs = append(p.errs, errors.New(errors.CodeLexError, terr.Pos, terr.Message).WithSource(p.source))
			return nil
		}
		field.TypeHint = typeTok.Text
	}

	if _, lerr := p.lex.Advance(); lerr != nil { // consume ']'
		p.errs = append(p.errs, errors.New(errors.CodeLexError, lerr.Pos, lerr.Message).WithSource(p.source))
		return nil
	}

	// The lexer has now moved past ']'; pull the parser's one token of
	// lookahead back in sync with it.
	p.advance()

	return field
}

func (p *Parser) parseIdentOrCall() ast.Expr {
	tok := p.cur
	p.advance()
	if !p.curIs(token.LPAREN) {
		return &ast.Identifier{Token: tok, Value: tok.Text}
	}
	p.advance() // '('
	var args []ast.Expr
	if !p.curIs(token.RPAREN) {
		for {
			arg := p.parseExpr()
			if arg == nil {
				return nil
			}
			args = append(args, arg)
			if !p.curIs(token.COMMA) {
				break
			}
			p.advance()
		}
	}
	if _, ok := p.expect(token.RPAREN); !ok {
		return nil
	}
	return &ast.CallExpr{Token: tok, Function: tok.Text, Args: args}
}
