package main

import (
	"regexp"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func compile(t *testing.T, src string) string {
	t.Helper()
	asm, err := Compile(src)
	be.Err(t, err, nil)
	return asm
}

func TestGenerateReturnConstant(t *testing.T) {
	asm := compile(t, "{return 42;}")
	be.Equal(t, asm, `  .globl main
main:
  push %rbp
  mov %rsp, %rbp
  sub $0, %rsp
  mov $42, %rax
  jmp .L.return.main
.L.return.main:
  mov %rbp, %rsp
  pop %rbp
  ret
`)
}

func TestGenerateAssignment(t *testing.T) {
	asm := compile(t, "{a = 3; return a - 1;}")
	be.Equal(t, asm, `  .globl main
main:
  push %rbp
  mov %rsp, %rbp
  sub $16, %rsp
  mov $3, %rax
  push %rax
  lea -8(%rbp), %rax
  pop %rdi
  mov %rdi, (%rax)
  mov (%rax), %rax
  mov $1, %rax
  push %rax
  lea -8(%rbp), %rax
  mov (%rax), %rax
  pop %rdi
  sub %rdi, %rax
  jmp .L.return.main
.L.return.main:
  mov %rbp, %rsp
  pop %rbp
  ret
`)
}

func TestGenerateOperators(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"{return 1+2;}", []string{"  add %rdi, %rax"}},
		{"{return 1-2;}", []string{"  sub %rdi, %rax"}},
		{"{return 1*2;}", []string{"  imul %rdi, %rax"}},
		{"{return 1/2;}", []string{"  cqo", "  idiv %rdi"}},
		{"{return 1==2;}", []string{"  cmp %rdi, %rax", "  sete %al", "  movzb %al, %rax"}},
		{"{return 1!=2;}", []string{"  cmp %rdi, %rax", "  setne %al", "  movzb %al, %rax"}},
		{"{return 1<2;}", []string{"  cmp %rdi, %rax", "  setl %al", "  movzb %al, %rax"}},
		{"{return 1<=2;}", []string{"  cmp %rdi, %rax", "  setle %al", "  movzb %al, %rax"}},
		{"{return -x;}", []string{"  mov (%rax), %rax", "  neg %rax"}},
		{"{return 4294967296;}", []string{"  movabs $4294967296, %rax"}},
		{"{return -2147483648;}", []string{"  movabs $2147483648, %rax", "  neg %rax"}},
		{"{return 2147483647;}", []string{"  mov $2147483647, %rax"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			asm := compile(t, tt.input)
			be.True(t, strings.Contains(asm, strings.Join(tt.want, "\n")+"\n"))
		})
	}
}

// a > b is emitted as b < a: the right operand is pushed first, so %rax
// holds the original right-hand side when the comparison runs.
func TestGenerateGreaterThanSwapsOperands(t *testing.T) {
	asm := compile(t, "{a = 1; b = 2; return a > b;}")
	be.True(t, strings.Contains(asm, `  lea -8(%rbp), %rax
  mov (%rax), %rax
  push %rax
  lea -16(%rbp), %rax
  mov (%rax), %rax
  pop %rdi
  cmp %rdi, %rax
  setl %al
`))
}

func TestGenerateIfElse(t *testing.T) {
	asm := compile(t, "{if (1) return 2; else return 3;}")
	be.True(t, strings.Contains(asm, `  mov $1, %rax
  cmp $0, %rax
  je .L.else.1
  mov $2, %rax
  jmp .L.return.main
  jmp .L.end.1
.L.else.1:
  mov $3, %rax
  jmp .L.return.main
.L.end.1:
`))
}

func TestGenerateForLoop(t *testing.T) {
	asm := compile(t, "{for (i = 0; i < 3; i = i + 1) ;}")
	begin := strings.Index(asm, ".L.begin.1:")
	cond := strings.Index(asm, "  je .L.end.1")
	back := strings.Index(asm, "  jmp .L.begin.1")
	end := strings.Index(asm, ".L.end.1:")
	be.True(t, begin > 0)
	be.True(t, begin < cond)
	be.True(t, cond < back)
	be.True(t, back < end)
}

func TestGenerateInfiniteLoopHasNoExitTest(t *testing.T) {
	asm := compile(t, "{for (;;) return 1;}")
	be.True(t, !strings.Contains(asm, "je .L.end.1"))
	be.True(t, strings.Contains(asm, "  jmp .L.begin.1\n.L.end.1:\n"))
}

func TestGenerateSharedEpilogue(t *testing.T) {
	asm := compile(t, "{if (1) return 1; if (2) return 2; return 3;}")
	be.Equal(t, strings.Count(asm, "  jmp .L.return.main\n"), 3)
	be.Equal(t, strings.Count(asm, ".L.return.main:\n"), 1)
	be.Equal(t, strings.Count(asm, "  ret\n"), 1)
}

var labelDef = regexp.MustCompile(`(?m)^(\.L\.[a-z]+\.\d+):$`)

func TestLabelsAreUnique(t *testing.T) {
	asm := compile(t, `{
		if (a) { while (b) { if (c) ; else ; } }
		for (;;) { if (d) return 1; }
		while (e) for (;f;) ;
	}`)

	seen := make(map[string]bool)
	for _, m := range labelDef.FindAllStringSubmatch(asm, -1) {
		be.True(t, !seen[m[1]])
		seen[m[1]] = true
	}
	be.True(t, len(seen) > 10)
}

// Each compilation numbers its labels from scratch.
func TestLabelsIndependentAcrossCompilations(t *testing.T) {
	t.Parallel()
	src := "{if (1) return 1; while (0) ; return 2;}"
	first := compile(t, src)
	compile(t, "{if (1) if (2) if (3) ;}")
	second := compile(t, src)
	be.Equal(t, first, second)
	be.True(t, strings.Contains(first, ".L.else.1:"))
	be.True(t, strings.Contains(first, ".L.begin.2:"))
}

func TestConcurrentCompilationsAgree(t *testing.T) {
	t.Parallel()
	src := "{x=1; y=2; while(x<=5){y=y*x; x=x+1;} if (y == 240) return 1; return 0;}"
	want := compile(t, src)

	results := make(chan string, 8)
	for range 8 {
		go func() {
			asm, _ := Compile(src)
			results <- asm
		}()
	}
	for range 8 {
		be.Equal(t, <-results, want)
	}
}

// ========================
// SPILL DEPTH
// ========================

// The spill depth is back to zero after every statement.
func TestSpillDepthZeroAfterEveryStatement(t *testing.T) {
	t.Parallel()
	sources := []string{
		"{a=3; return a+2*5-1;}",
		"{x=1; y=2; while(x<=5){y=y*x; x=x+1;} return y;}",
		"{a=0; for(i=0; i<5; i=i+1){a=a+i;} return a;}",
		"{return ((((1+2)*(3+4))-((5-6)*(7-8)))/2);}",
		"{a = b = c = d = 1 + 2 * 3 - 4 / 5; if (a == b) if (c != d) ; else {;;} }",
		"{return 1<2==3<=4!=5>6>=7;}",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			fn, err := Frontend(src)
			be.Err(t, err, nil)

			g := newCodegen(fn)
			statements := 0
			g.afterStmt = func(id NodeID, depth int) {
				statements++
				be.Equal(t, depth, 0)
			}
			g.run()
			be.True(t, statements > 0)
		})
	}
}

// A left-nested chain keeps one spilled operand per level.
func TestSpillDepthDuringExpression(t *testing.T) {
	fn, err := Frontend("{return 1+2+3+4;}")
	be.Err(t, err, nil)

	asm := Generate(fn)
	maxDepth, depth := 0, 0
	for _, line := range strings.Split(asm, "\n") {
		switch line {
		case "  push %rax":
			depth++
			maxDepth = max(maxDepth, depth)
		case "  pop %rdi":
			depth--
		}
	}
	be.Equal(t, depth, 0)
	be.Equal(t, maxDepth, 3)
}

// ========================
// INTERNAL ERRORS
// ========================

func expectPanic(t *testing.T, want string, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic %q", want)
		}
		be.Equal(t, r, any(want))
	}()
	f()
}

func TestGenerateWithoutLayoutPanics(t *testing.T) {
	fn := parseProgram(t, "{return 1;}")
	expectPanic(t, "codegen: frame not laid out", func() {
		Generate(fn)
	})
}

func TestGenerateRejectsMalformedTree(t *testing.T) {
	fn := &Function{Body: NoNode}
	num := fn.add(&NumNode{Value: 1})
	assign := fn.add(&BinaryNode{Op: OpAssign, LHS: num, RHS: num})
	fn.Body = fn.add(&BlockNode{Stmts: []NodeID{fn.add(&ExprStmtNode{Expr: assign})}})
	fn.LayoutFrame()

	expectPanic(t, "codegen: NodeNum is not an lvalue", func() {
		Generate(fn)
	})
}

func TestGenerateRejectsExpressionAsStatement(t *testing.T) {
	fn := &Function{Body: NoNode}
	fn.Body = fn.add(&NumNode{Value: 1})
	fn.LayoutFrame()

	expectPanic(t, "codegen: invalid statement NodeNum", func() {
		Generate(fn)
	})
}
