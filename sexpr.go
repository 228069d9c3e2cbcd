package main

import (
	"strconv"

	"github.com/strager/minicc/sexy"
)

// ToSExpr renders the subtree rooted at id as an S-expression, e.g.
//
//	(block (expr (binary "=" (var "a") 3)) (return (var "a")))
func ToSExpr(fn *Function, id NodeID) string {
	return toSexy(fn, id).String()
}

// FrameSExpr renders fn's frame layout, e.g.
//
//	(frame 16 (local "a" -8) (local "b" -16))
func FrameSExpr(fn *Function) string {
	return frameToSexy(fn).String()
}

func toSexy(fn *Function, id NodeID) *sexy.Node {
	if id == NoNode {
		return sexy.NewSymbol("nil")
	}
	switch n := fn.Node(id).(type) {
	case *NumNode:
		return sexy.NewInteger(strconv.FormatInt(n.Value, 10))
	case *VarNode:
		return list(sexy.NewSymbol("var"), sexy.NewString(fn.Local(n.Var).Name))
	case *NegNode:
		return list(sexy.NewSymbol("unary"), sexy.NewString("-"), toSexy(fn, n.Operand))
	case *BinaryNode:
		return list(sexy.NewSymbol("binary"), sexy.NewString(string(n.Op)), toSexy(fn, n.LHS), toSexy(fn, n.RHS))
	case *ExprStmtNode:
		if n.Expr == NoNode {
			return list(sexy.NewSymbol("expr"))
		}
		return list(sexy.NewSymbol("expr"), toSexy(fn, n.Expr))
	case *ReturnNode:
		return list(sexy.NewSymbol("return"), toSexy(fn, n.Expr))
	case *BlockNode:
		items := []*sexy.Node{sexy.NewSymbol("block")}
		for _, stmt := range n.Stmts {
			items = append(items, toSexy(fn, stmt))
		}
		return sexy.NewList(items)
	case *IfNode:
		if n.Else == NoNode {
			return list(sexy.NewSymbol("if"), toSexy(fn, n.Cond), toSexy(fn, n.Then))
		}
		return list(sexy.NewSymbol("if"), toSexy(fn, n.Cond), toSexy(fn, n.Then), toSexy(fn, n.Else))
	case *LoopNode:
		return list(sexy.NewSymbol("loop"), toSexy(fn, n.Init), toSexy(fn, n.Cond), toSexy(fn, n.Post), toSexy(fn, n.Body))
	}
	return sexy.NewSymbol("?" + string(fn.Node(id).Kind()))
}

func frameToSexy(fn *Function) *sexy.Node {
	items := []*sexy.Node{sexy.NewSymbol("frame"), sexy.NewInteger(strconv.Itoa(fn.FrameSize))}
	for _, v := range fn.Locals {
		items = append(items, list(sexy.NewSymbol("local"), sexy.NewString(v.Name), sexy.NewInteger(strconv.Itoa(v.Offset))))
	}
	return sexy.NewList(items)
}

func list(items ...*sexy.Node) *sexy.Node {
	return sexy.NewList(items)
}
