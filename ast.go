package main

import "fmt"

// NodeID indexes a node in its Function's arena.
type NodeID int32

// NoNode marks an absent optional child (for example a missing else branch).
const NoNode NodeID = -1

// VarID indexes a local variable in its Function's Locals.
type VarID int

// BinaryOp is the operator of a BinaryNode.
type BinaryOp string

const (
	OpAdd    BinaryOp = "+"
	OpSub    BinaryOp = "-"
	OpMul    BinaryOp = "*"
	OpDiv    BinaryOp = "/"
	OpEq     BinaryOp = "=="
	OpNe     BinaryOp = "!="
	OpLt     BinaryOp = "<"
	OpLe     BinaryOp = "<="
	OpAssign BinaryOp = "="
)

// NodeKind names a node variant. It is used in dumps and error messages.
type NodeKind string

const (
	NodeNum      NodeKind = "NodeNum"
	NodeVar      NodeKind = "NodeVar"
	NodeNeg      NodeKind = "NodeNeg"
	NodeBinary   NodeKind = "NodeBinary"
	NodeExprStmt NodeKind = "NodeExprStmt"
	NodeReturn   NodeKind = "NodeReturn"
	NodeBlock    NodeKind = "NodeBlock"
	NodeIf       NodeKind = "NodeIf"
	NodeLoop     NodeKind = "NodeLoop"
)

// Node is implemented by every AST variant. The set is closed: only the
// types in this file implement it.
type Node interface {
	Kind() NodeKind
}

// NumNode is an integer literal.
type NumNode struct {
	Value int64
}

// VarNode is a reference to a local variable.
type VarNode struct {
	Var VarID
}

// NegNode is unary minus. Unary plus produces no node.
type NegNode struct {
	Operand NodeID
}

// BinaryNode covers arithmetic, comparison and assignment. For OpAssign the
// LHS is always a VarNode. Greater-than comparisons are stored as OpLt/OpLe
// with swapped operands.
type BinaryNode struct {
	Op  BinaryOp
	LHS NodeID
	RHS NodeID
}

// ExprStmtNode evaluates Expr and discards the result. Expr is NoNode for
// the empty statement ";".
type ExprStmtNode struct {
	Expr NodeID
}

// ReturnNode returns Expr from main.
type ReturnNode struct {
	Expr NodeID
}

// BlockNode is a brace-delimited statement sequence.
type BlockNode struct {
	Stmts []NodeID
}

// IfNode has an optional Else (NoNode when absent).
type IfNode struct {
	Cond NodeID
	Then NodeID
	Else NodeID
}

// LoopNode represents both for and while. Init, Cond and Post are optional
// expressions; a while loop has neither Init nor Post.
type LoopNode struct {
	Init NodeID
	Cond NodeID
	Post NodeID
	Body NodeID
}

func (*NumNode) Kind() NodeKind      { return NodeNum }
func (*VarNode) Kind() NodeKind      { return NodeVar }
func (*NegNode) Kind() NodeKind      { return NodeNeg }
func (*BinaryNode) Kind() NodeKind   { return NodeBinary }
func (*ExprStmtNode) Kind() NodeKind { return NodeExprStmt }
func (*ReturnNode) Kind() NodeKind   { return NodeReturn }
func (*BlockNode) Kind() NodeKind    { return NodeBlock }
func (*IfNode) Kind() NodeKind       { return NodeIf }
func (*LoopNode) Kind() NodeKind     { return NodeLoop }

// Var is a local variable. Offset is relative to the frame base and is only
// valid after LayoutFrame.
type Var struct {
	Name   string
	Offset int
}

// Function is the single translation unit: the body of main, its arena and
// its locals.
type Function struct {
	Nodes     []Node
	Body      NodeID
	Locals    []Var
	FrameSize int

	laidOut bool
}

// Node returns the node with the given id.
func (f *Function) Node(id NodeID) Node {
	return f.Nodes[id]
}

// Local returns the variable with the given id.
func (f *Function) Local(id VarID) Var {
	return f.Locals[id]
}

func (f *Function) add(n Node) NodeID {
	f.Nodes = append(f.Nodes, n)
	return NodeID(len(f.Nodes) - 1)
}

func (f *Function) String() string {
	return fmt.Sprintf("Function(nodes=%d, locals=%d, frame=%d)", len(f.Nodes), len(f.Locals), f.FrameSize)
}
