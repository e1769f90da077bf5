package parser

import (
	"github.com/logbie/wfl-sub001/ast"
	"github.com/logbie/wfl-sub001/diagnostics"
	"github.com/logbie/wfl-sub001/token"
)

func (p *Parser) parseStatement() ast.Statement {
	var stmt ast.Statement
	switch p.cur().Type {
	case token.STORE:
		stmt = p.parseStore()
	case token.CHANGE:
		stmt = p.parseChange()
	case token.DISPLAY:
		stmt = p.parseDisplay()
	case token.CHECK:
		stmt = p.parseCheck()
	case token.COUNT:
		stmt = p.parseCountLoop()
	case token.FOR:
		stmt = p.parseForEach()
	case token.REPEAT:
		stmt = p.parseRepeat()
	case token.TRY:
		stmt = p.parseTry()
	case token.DEFINE:
		stmt = p.parseActionDefinition(ast.Public)
	case token.PUBLIC:
		p.advance()
		stmt = p.parseActionDefinition(ast.Public)
	case token.PRIVATE:
		p.advance()
		stmt = p.parseActionDefinition(ast.Private)
	case token.WAIT:
		stmt = p.parseWaitFor()
	case token.OPEN:
		stmt = p.parseReadFile()
	case token.WRITE:
		stmt = p.parseWriteFile(ast.Overwrite)
	case token.APPEND:
		stmt = p.parseWriteFile(ast.AppendMode)
	case token.GIVE:
		stmt = p.parseReturn()
	case token.BREAK:
		sp := p.advance().Span
		stmt = &ast.BreakStmt{Sp: sp}
	case token.EXIT:
		start := p.advance().Span
		p.expect(token.LOOP)
		stmt = &ast.BreakStmt{Sp: start}
	case token.CONTINUE:
		sp := p.advance().Span
		stmt = &ast.ContinueStmt{Sp: sp}
	case token.CREATE:
		stmt = p.parseCreate()
	case token.INTERFACE:
		stmt = p.parseInterfaceDefinition()
	case token.TRIGGER:
		stmt = p.parseTrigger()
	case token.ON:
		stmt = p.parseEventHandler()
	default:
		start := p.cur().Span
		expr := p.parseExpression(LOWEST)
		stmt = &ast.ExpressionStmt{Expr: expr, Sp: diagnostics.Join(start, expr.Span())}
	}

	if stmt == nil {
		p.recover()
		return nil
	}
	return stmt
}

func (p *Parser) parseStore() ast.Statement {
	start := p.advance().Span // 'store'
	if !p.at(token.IDENT) {
		p.errorf("expected variable name before 'as'")
		p.recover()
		return nil
	}
	name := p.advance().Literal
	if !p.expect(token.AS) {
		p.recover()
		return nil
	}
	value := p.parseExpression(LOWEST)
	return &ast.StoreStmt{Name: name, Value: value, Sp: diagnostics.Join(start, value.Span())}
}

func (p *Parser) parseChange() ast.Statement {
	start := p.advance().Span // 'change'
	target := p.parseExpression(CALL)
	if !p.expect(token.TO) {
		p.recover()
		return nil
	}
	value := p.parseExpression(LOWEST)
	return &ast.ChangeStmt{Target: target, Value: value, Sp: diagnostics.Join(start, value.Span())}
}

func (p *Parser) parseDisplay() ast.Statement {
	start := p.advance().Span
	expr := p.parseExpression(LOWEST)
	return &ast.DisplayStmt{Expr: expr, Sp: diagnostics.Join(start, expr.Span())}
}

func (p *Parser) parseReturn() ast.Statement {
	start := p.advance().Span // 'give'
	p.expect(token.BACK)
	if p.atAny(token.NEWLINE, token.EOF, token.END) {
		return &ast.ReturnStmt{Sp: start}
	}
	expr := p.parseExpression(LOWEST)
	return &ast.ReturnStmt{Expr: expr, Sp: diagnostics.Join(start, expr.Span())}
}

// check if EXPR : BLOCK [otherwise : BLOCK] end check
// check VALUE : when PATTERN : BLOCK ... [otherwise: BLOCK] end check
func (p *Parser) parseCheck() ast.Statement {
	start := p.advance().Span // 'check'
	if p.at(token.IF) {
		p.advance()
		cond := p.parseExpression(LOWEST)
		p.expect(token.COLON)
		thenBlock := p.parseBlock(token.OTHERWISE, token.END)
		var elseBlock *ast.Block
		if p.at(token.OTHERWISE) {
			p.advance()
			p.expect(token.COLON)
			elseBlock = p.parseBlock(token.END)
		}
		p.expect(token.END)
		p.expect(token.CHECK)
		return &ast.IfStmt{Cond: cond, Then: thenBlock, Else: elseBlock, Sp: diagnostics.Join(start, p.prev().Span)}
	}

	value := p.parseExpression(LOWEST)
	p.expect(token.COLON)
	p.skipNewlines()
	stmt := &ast.CheckStmt{Value: value, Sp: start}
	for p.at(token.WHEN) {
		p.advance()
		pat := p.parsePattern()
		p.expect(token.COLON)
		body := p.parseBlock(token.WHEN, token.OTHERWISE, token.END)
		stmt.Arms = append(stmt.Arms, ast.CheckArm{Pattern: pat, Body: body})
	}
	if p.at(token.OTHERWISE) {
		p.advance()
		p.expect(token.COLON)
		stmt.Else = p.parseBlock(token.END)
	}
	p.expect(token.END)
	p.expect(token.CHECK)
	stmt.Sp = diagnostics.Join(start, p.prev().Span)
	return stmt
}

func (p *Parser) parseCountLoop() ast.Statement {
	start := p.advance().Span // 'count'
	p.expect(token.FROM)
	from := p.parseExpression(LOWEST)
	p.expect(token.TO)
	to := p.parseExpression(LOWEST)
	var by ast.Expression
	if p.at(token.BY) {
		p.advance()
		by = p.parseExpression(LOWEST)
	}
	reversed := false
	if p.at(token.REVERSED) {
		p.advance()
		reversed = true
	}
	p.expect(token.COLON)
	body := p.parseBlock(token.END)
	p.expect(token.END)
	p.expect(token.COUNT)
	return &ast.CountLoopStmt{From: from, To: to, By: by, Reversed: reversed, Body: body, Sp: diagnostics.Join(start, p.prev().Span)}
}

func (p *Parser) parseForEach() ast.Statement {
	start := p.advance().Span // 'for'
	p.expect(token.EACH)
	name := ""
	if p.at(token.IDENT) {
		name = p.advance().Literal
	} else {
		p.errorf("expected loop variable name after 'for each'")
	}
	p.expect(token.IN)
	coll := p.parseExpression(LOWEST)
	p.expect(token.COLON)
	body := p.parseBlock(token.END)
	p.expect(token.END)
	p.expect(token.FOR)
	return &ast.ForEachStmt{Var: name, Collection: coll, Body: body, Sp: diagnostics.Join(start, p.prev().Span)}
}

func (p *Parser) parseRepeat() ast.Statement {
	start := p.advance().Span // 'repeat'
	var kind ast.RepeatKind
	var cond ast.Expression
	switch p.cur().Type {
	case token.WHILE:
		p.advance()
		kind = ast.RepeatWhile
		cond = p.parseExpression(LOWEST)
	case token.UNTIL:
		p.advance()
		kind = ast.RepeatUntil
		cond = p.parseExpression(LOWEST)
	case token.FOREVER:
		p.advance()
		kind = ast.RepeatForever
	default:
		p.errorf("expected 'while', 'until', or 'forever' after 'repeat'")
	}
	p.expect(token.COLON)
	body := p.parseBlock(token.END)
	p.expect(token.END)
	p.expect(token.REPEAT)
	return &ast.RepeatStmt{Kind: kind, Cond: cond, Body: body, Sp: diagnostics.Join(start, p.prev().Span)}
}

func (p *Parser) parseTry() ast.Statement {
	start := p.advance().Span // 'try'
	p.expect(token.COLON)
	body := p.parseBlock(token.WHEN, token.FINALLY, token.END)
	stmt := &ast.TryStmt{Body: body, Sp: start}
	for p.at(token.WHEN) {
		p.advance()
		pat := p.parsePattern()
		p.expect(token.COLON)
		arm := p.parseBlock(token.WHEN, token.FINALLY, token.END)
		stmt.Arms = append(stmt.Arms, ast.TryArm{Pattern: pat, Body: arm})
	}
	if p.at(token.FINALLY) {
		p.advance()
		p.expect(token.COLON)
		stmt.Finally = p.parseBlock(token.END)
	}
	p.expect(token.END)
	p.expect(token.TRY)
	stmt.Sp = diagnostics.Join(start, p.prev().Span)
	return stmt
}

func (p *Parser) parseParams() []ast.Param {
	var params []ast.Param
	for {
		if !p.at(token.IDENT) {
			break
		}
		name := p.advance().Literal
		param := ast.Param{Name: name}
		if p.at(token.AS) {
			p.advance()
			param.Type = p.parseTypeExpr()
		}
		if p.at(token.ASSIGN) {
			p.advance()
			param.Default = p.parseExpression(LOWEST)
		}
		params = append(params, param)
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		if p.at(token.AND) {
			p.advance()
			continue
		}
		break
	}
	return params
}

func (p *Parser) parseActionDefinition(vis ast.Visibility) ast.Statement {
	start := p.advance().Span // 'define'
	p.expect(token.ACTION)
	p.expect(token.CALLED)
	name := ""
	if p.at(token.IDENT) {
		name = p.advance().Literal
	} else {
		p.errorf("expected action name after 'called'")
	}
	var params []ast.Param
	if p.at(token.NEEDS) {
		p.advance()
		params = p.parseParams()
	}
	var ret ast.TypeExpr
	if p.at(token.GIVING) {
		p.advance()
		ret = p.parseTypeExpr()
	}
	p.expect(token.COLON)
	body := p.parseBlock(token.END)
	p.expect(token.END)
	p.expect(token.ACTION)
	return &ast.ActionDefinitionStmt{Name: name, Params: params, Return: ret, Body: body, Visibility: vis, Sp: diagnostics.Join(start, p.prev().Span)}
}

func (p *Parser) parseWaitFor() ast.Statement {
	start := p.advance().Span // 'wait'
	p.expect(token.FOR)
	inner := p.parseStatement()
	if inner == nil {
		return nil
	}
	return &ast.WaitForStmt{Inner: inner, Sp: diagnostics.Join(start, inner.Span())}
}

func (p *Parser) parseReadFile() ast.Statement {
	start := p.advance().Span // 'open'
	p.expect(token.FILE)
	p.expect(token.AT)
	path := p.parseExpression(LOWEST)
	p.expect(token.AND)
	p.expect(token.READ)
	p.expect(token.CONTENT)
	target := ""
	if p.at(token.AS) {
		p.advance()
		if p.at(token.IDENT) {
			target = p.advance().Literal
		}
	}
	return &ast.ReadFileStmt{Path: path, Target: target, Sp: diagnostics.Join(start, path.Span())}
}

func (p *Parser) parseWriteFile(mode ast.WriteMode) ast.Statement {
	start := p.advance().Span // 'write' | 'append'
	p.expect(token.CONTENT)
	content := p.parseExpression(CALL)
	p.expect(token.INTO)
	path := p.parseExpression(LOWEST)
	return &ast.WriteFileStmt{Mode: mode, Content: content, Path: path, Sp: diagnostics.Join(start, path.Span())}
}

func (p *Parser) parseTrigger() ast.Statement {
	start := p.advance().Span // 'trigger'
	name := ""
	if p.at(token.IDENT) {
		name = p.advance().Literal
	}
	var args []ast.Expression
	end := start
	if p.at(token.WITH) {
		p.advance()
		args = p.parseArgList()
		if len(args) > 0 {
			end = args[len(args)-1].Span()
		}
	}
	return &ast.TriggerStmt{Event: name, Args: args, Sp: diagnostics.Join(start, end)}
}

func (p *Parser) parseEventHandler() ast.Statement {
	start := p.advance().Span // 'on'
	event := ""
	if p.at(token.IDENT) {
		event = p.advance().Literal
	}
	p.expect(token.OF)
	target := p.parseExpression(CALL)
	p.expect(token.DO)
	p.expect(token.COLON)
	body := p.parseBlock(token.END)
	p.expect(token.END)
	p.expect(token.ON)
	return &ast.EventHandlerStmt{Event: event, Target: target, Body: body, Sp: diagnostics.Join(start, p.prev().Span)}
}

func (p *Parser) parseCreate() ast.Statement {
	start := p.advance().Span // 'create'
	if p.at(token.CONTAINER) {
		return p.parseContainerDefinition(start)
	}
	p.expect(token.NEW)
	typeName := ""
	if p.at(token.IDENT) {
		typeName = p.advance().Literal
	}
	p.expect(token.AS)
	name := ""
	if p.at(token.IDENT) {
		name = p.advance().Literal
	}
	end := start
	var args []ast.Expression
	if p.at(token.WITH) {
		p.advance()
		args = p.parseArgList()
		if len(args) > 0 {
			end = args[len(args)-1].Span()
		}
	}
	var inits []ast.Initializer
	if p.at(token.COLON) {
		p.advance()
		p.skipNewlines()
		for p.at(token.IDENT) {
			fname := p.advance().Literal
			p.expect(token.AS)
			val := p.parseExpression(LOWEST)
			inits = append(inits, ast.Initializer{Name: fname, Value: val})
			end = val.Span()
			if !p.at(token.COMMA) {
				break
			}
			p.advance()
			p.skipNewlines()
		}
	}
	return &ast.ContainerInstantiationStmt{Type: typeName, Name: name, Args: args, Initializers: inits, Sp: diagnostics.Join(start, end)}
}

func (p *Parser) parseContainerDefinition(start diagnostics.Span) ast.Statement {
	p.advance() // 'container'
	name := ""
	if p.at(token.IDENT) {
		name = p.advance().Literal
	}
	def := &ast.ContainerDefinitionStmt{Name: name, Sp: start}
	if p.at(token.EXTENDS) {
		p.advance()
		if p.at(token.IDENT) {
			def.Extends = p.advance().Literal
		}
	}
	if p.at(token.IMPLEMENTS) {
		p.advance()
		for p.at(token.IDENT) {
			def.Implements = append(def.Implements, p.advance().Literal)
			if p.at(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	p.expect(token.COLON)
	p.skipNewlines()
	for !p.atAny(token.END, token.EOF) {
		static := false
		vis := ast.Public
		for p.atAny(token.STATIC, token.PUBLIC, token.PRIVATE) {
			switch p.cur().Type {
			case token.STATIC:
				static = true
			case token.PUBLIC:
				vis = ast.Public
			case token.PRIVATE:
				vis = ast.Private
			}
			p.advance()
		}
		switch p.cur().Type {
		case token.PROPERTYKW:
			p.advance()
			pname := ""
			if p.atAny(token.IDENT, token.COUNT) {
				pname = p.advance().Literal
			}
			member := ast.PropertyMember{Name: pname, Visibility: vis, Static: static}
			if p.at(token.AS) {
				p.advance()
				member.Type = p.parseTypeExpr()
			}
			if p.at(token.DEFAULTS) {
				p.advance()
				p.expect(token.TO)
				member.Default = p.parseExpression(LOWEST)
			}
			def.Properties = append(def.Properties, member)
		case token.ACTION, token.DEFINE:
			actionDef := p.parseActionDefinition(vis).(*ast.ActionDefinitionStmt)
			def.Methods = append(def.Methods, ast.MethodMember{Def: actionDef, Static: static})
		case token.EVENT:
			p.advance()
			ename := ""
			if p.at(token.IDENT) {
				ename = p.advance().Literal
			}
			var params []ast.Param
			if p.at(token.NEEDS) {
				p.advance()
				params = p.parseParams()
			}
			def.Events = append(def.Events, ast.EventMember{Name: ename, Params: params})
		default:
			p.errorf("unexpected token %s in container body", p.cur().Type)
			p.advance()
		}
		p.skipNewlines()
	}
	p.expect(token.END)
	if p.at(token.CONTAINER) {
		p.advance()
	}
	def.Sp = diagnostics.Join(start, p.prev().Span)
	return def
}

func (p *Parser) parseInterfaceDefinition() ast.Statement {
	start := p.advance().Span // 'interface'
	name := ""
	if p.at(token.IDENT) {
		name = p.advance().Literal
	}
	def := &ast.InterfaceDefinitionStmt{Name: name, Sp: start}
	p.expect(token.COLON)
	p.skipNewlines()
	for !p.atAny(token.END, token.EOF) {
		if p.at(token.ACTION) {
			p.advance()
		}
		p.expect(token.CALLED)
		mname := ""
		if p.at(token.IDENT) {
			mname = p.advance().Literal
		}
		var params []ast.Param
		if p.at(token.NEEDS) {
			p.advance()
			params = p.parseParams()
		}
		var ret ast.TypeExpr
		if p.at(token.GIVING) {
			p.advance()
			ret = p.parseTypeExpr()
		}
		def.Methods = append(def.Methods, ast.InterfaceMethod{Name: mname, Params: params, Return: ret})
		p.skipNewlines()
	}
	p.expect(token.END)
	if p.at(token.INTERFACE) {
		p.advance()
	}
	def.Sp = diagnostics.Join(start, p.prev().Span)
	return def
}

func (p *Parser) parseTypeExpr() ast.TypeExpr {
	start := p.cur().Span
	switch p.cur().Type {
	case token.IDENT:
		name := p.advance().Literal
		if name == "list" && p.at(token.OF) {
			p.advance()
			elem := p.parseTypeExpr()
			return &ast.ListType{Elem: elem, Sp: start}
		}
		if name == "set" && p.at(token.OF) {
			p.advance()
			elem := p.parseTypeExpr()
			return &ast.SetType{Elem: elem, Sp: start}
		}
		if name == "map" && p.at(token.OF) {
			p.advance()
			key := p.parseTypeExpr()
			p.expect(token.TO)
			val := p.parseTypeExpr()
			return &ast.MapType{Key: key, Value: val, Sp: start}
		}
		return &ast.NamedType{Name: name, Sp: start}
	default:
		p.errorf("expected a type name, found %s", p.cur().Type)
		p.advance()
		return &ast.NamedType{Name: "any", Sp: start}
	}
}
