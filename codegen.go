package main

import (
	"fmt"
	"math"
	"strings"
)

// codegen lowers a Function to x86-64 assembly (AT&T syntax). Expressions
// are evaluated into %rax; the machine stack holds one operand while the
// other is computed.
//
// All state lives here so that independent compilations never share label
// numbers.
type codegen struct {
	fn    *Function
	out   strings.Builder
	depth int // outstanding pushes
	label int // shared counter for if and loop labels

	// afterStmt, when set, observes the spill depth after each statement.
	afterStmt func(id NodeID, depth int)
}

func newCodegen(fn *Function) *codegen {
	return &codegen{fn: fn}
}

// Generate emits the assembly for fn. fn must have been laid out with
// LayoutFrame. Generate panics if it detects an inconsistency in its own
// output; malformed programs are rejected earlier by the parser.
func Generate(fn *Function) string {
	return newCodegen(fn).run()
}

func (g *codegen) run() string {
	if !g.fn.laidOut {
		panic("codegen: frame not laid out")
	}

	g.line("  .globl main")
	g.line("main:")

	// Prologue
	g.line("  push %%rbp")
	g.line("  mov %%rsp, %%rbp")
	g.line("  sub $%d, %%rsp", g.fn.FrameSize)

	g.genStmt(g.fn.Body)

	// Epilogue, shared by every return statement.
	g.line("%s:", returnLabel)
	g.line("  mov %%rbp, %%rsp")
	g.line("  pop %%rbp")
	g.line("  ret")

	return g.out.String()
}

const returnLabel = ".L.return.main"

func (g *codegen) line(format string, args ...any) {
	fmt.Fprintf(&g.out, format+"\n", args...)
}

func (g *codegen) nextLabel() int {
	g.label++
	return g.label
}

func (g *codegen) push() {
	g.line("  push %%rax")
	g.depth++
}

func (g *codegen) pop(reg string) {
	g.line("  pop %s", reg)
	g.depth--
}

// genAddr leaves the address of a variable in %rax.
func (g *codegen) genAddr(id NodeID) {
	n, ok := g.fn.Node(id).(*VarNode)
	if !ok {
		panic(fmt.Sprintf("codegen: %s is not an lvalue", g.fn.Node(id).Kind()))
	}
	g.line("  lea %d(%%rbp), %%rax", g.fn.Local(n.Var).Offset)
}

func (g *codegen) genExpr(id NodeID) {
	switch n := g.fn.Node(id).(type) {
	case *NumNode:
		if n.Value < math.MinInt32 || n.Value > math.MaxInt32 {
			g.line("  movabs $%d, %%rax", n.Value)
		} else {
			g.line("  mov $%d, %%rax", n.Value)
		}
		return

	case *VarNode:
		g.genAddr(id)
		g.line("  mov (%%rax), %%rax")
		return

	case *NegNode:
		g.genExpr(n.Operand)
		g.line("  neg %%rax")
		return

	case *BinaryNode:
		if n.Op == OpAssign {
			g.genExpr(n.RHS)
			g.push()
			g.genAddr(n.LHS)
			g.pop("%rdi")
			g.line("  mov %%rdi, (%%rax)")
			g.line("  mov (%%rax), %%rax")
			return
		}
		g.genBinary(n)
		return
	}

	panic(fmt.Sprintf("codegen: invalid expression %s", g.fn.Node(id).Kind()))
}

// genBinary evaluates RHS first and LHS second, so that LHS ends up in %rax
// and RHS in %rdi.
func (g *codegen) genBinary(n *BinaryNode) {
	g.genExpr(n.RHS)
	g.push()
	g.genExpr(n.LHS)
	g.pop("%rdi")

	switch n.Op {
	case OpAdd:
		g.line("  add %%rdi, %%rax")
	case OpSub:
		g.line("  sub %%rdi, %%rax")
	case OpMul:
		g.line("  imul %%rdi, %%rax")
	case OpDiv:
		g.line("  cqo")
		g.line("  idiv %%rdi")
	case OpEq, OpNe, OpLt, OpLe:
		g.line("  cmp %%rdi, %%rax")
		switch n.Op {
		case OpEq:
			g.line("  sete %%al")
		case OpNe:
			g.line("  setne %%al")
		case OpLt:
			g.line("  setl %%al")
		case OpLe:
			g.line("  setle %%al")
		}
		g.line("  movzb %%al, %%rax")
	default:
		panic(fmt.Sprintf("codegen: invalid binary operator %q", n.Op))
	}
}

func (g *codegen) genStmt(id NodeID) {
	switch n := g.fn.Node(id).(type) {
	case *BlockNode:
		for _, stmt := range n.Stmts {
			g.genStmt(stmt)
		}

	case *ExprStmtNode:
		if n.Expr != NoNode {
			g.genExpr(n.Expr)
		}

	case *ReturnNode:
		g.genExpr(n.Expr)
		g.line("  jmp %s", returnLabel)

	case *IfNode:
		c := g.nextLabel()
		g.genExpr(n.Cond)
		g.line("  cmp $0, %%rax")
		g.line("  je .L.else.%d", c)
		g.genStmt(n.Then)
		g.line("  jmp .L.end.%d", c)
		g.line(".L.else.%d:", c)
		if n.Else != NoNode {
			g.genStmt(n.Else)
		}
		g.line(".L.end.%d:", c)

	case *LoopNode:
		c := g.nextLabel()
		if n.Init != NoNode {
			g.genExpr(n.Init)
		}
		g.line(".L.begin.%d:", c)
		if n.Cond != NoNode {
			g.genExpr(n.Cond)
			g.line("  cmp $0, %%rax")
			g.line("  je .L.end.%d", c)
		}
		g.genStmt(n.Body)
		if n.Post != NoNode {
			g.genExpr(n.Post)
		}
		g.line("  jmp .L.begin.%d", c)
		g.line(".L.end.%d:", c)

	default:
		panic(fmt.Sprintf("codegen: invalid statement %s", g.fn.Node(id).Kind()))
	}

	if g.afterStmt != nil {
		g.afterStmt(id, g.depth)
	}
	if g.depth != 0 {
		panic(fmt.Sprintf("codegen: spill depth %d after %s", g.depth, g.fn.Node(id).Kind()))
	}
}
