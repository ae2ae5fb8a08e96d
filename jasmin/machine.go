package jasmin

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
)

var (
	ErrStepLimit      = errors.New("step limit exceeded")
	ErrDivideByZero   = errors.New("java.lang.ArithmeticException: / by zero")
	ErrInputMismatch  = errors.New("java.util.InputMismatchException")
	ErrNoInput        = errors.New("java.util.NoSuchElementException")
	ErrStackOverflow  = errors.New("operand stack overflow")
	ErrStackUnderflow = errors.New("operand stack underflow")
	ErrBadLocal       = errors.New("bad local variable access")
	ErrTypeMismatch   = errors.New("operand type mismatch")
	ErrUnsupported    = errors.New("unsupported member reference")
)

// RuntimeError reports a failure while executing an instruction.
type RuntimeError struct {
	Line int
	Op   string
	Err  error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Op, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// Kind tells what a Value holds.
type Kind int

const (
	KindUnset Kind = iota
	KindInt
	KindRef
)

// Value is an operand stack entry or local variable.
type Value struct {
	Kind Kind
	Int  int32
	Ref  any
}

// The reference types the machine knows about.
type (
	inputStream struct{}
	printStream struct{}
	stringArray struct{}
	scanner     struct {
		bound bool // set by <init>
	}
)

// Option configures a Machine.
type Option func(*Machine)

// WithStepLimit stops execution with ErrStepLimit after n instructions.
// Zero means no limit.
func WithStepLimit(n int64) Option {
	return func(m *Machine) {
		m.stepLimit = n
	}
}

// Machine executes the main method of an assembled class.
type Machine struct {
	class     *Class
	stdin     io.Reader
	stdout    io.Writer
	stepLimit int64
	words     *bufio.Scanner // stdin split into words, shared by every run

	steps  int64
	locals []Value
	stack  []Value
}

// NewMachine prepares class for execution. The program reads integers from
// stdin and writes lines to stdout.
func NewMachine(class *Class, stdin io.Reader, stdout io.Writer, opts ...Option) *Machine {
	m := &Machine{class: class, stdin: stdin, stdout: stdout}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Steps returns the number of instructions executed so far.
func (m *Machine) Steps() int64 {
	return m.steps
}

// Local returns the value of a local slot of the main method as left by
// the last Run.
func (m *Machine) Local(slot int) (Value, bool) {
	if slot < 0 || slot >= len(m.locals) {
		return Value{}, false
	}
	return m.locals[slot], true
}

// Locals returns the int view of the main method's local slots as left by
// the last Run. Slots holding references or never assigned read as zero.
func (m *Machine) Locals() []int32 {
	ints := make([]int32, len(m.locals))
	for i, v := range m.locals {
		if v.Kind == KindInt {
			ints[i] = v.Int
		}
	}
	return ints
}

// Run executes the main method until it returns, fails, exceeds the step
// limit, or ctx is done.
func (m *Machine) Run(ctx context.Context) error {
	method, ok := m.class.Methods[MainMethod]
	if !ok || !method.Static {
		return fmt.Errorf("class %s has no static %s", m.class.Name, MainMethod)
	}

	m.steps = 0
	m.stack = m.stack[:0]
	m.locals = make([]Value, method.Locals)
	if len(m.locals) > 0 {
		m.locals[0] = Value{Kind: KindRef, Ref: stringArray{}}
	}

	code := method.Code
	pc := 0
	for {
		if pc >= len(code) {
			return fmt.Errorf("execution fell off the end of %s", MainMethod)
		}
		ins := &code[pc]
		pc++

		if m.stepLimit > 0 && m.steps >= m.stepLimit {
			return &RuntimeError{ins.Line, ins.Op, ErrStepLimit}
		}
		m.steps++
		if m.steps%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		next, done, err := m.step(method, ins)
		if err != nil {
			return &RuntimeError{ins.Line, ins.Op, err}
		}
		if done {
			return nil
		}
		if next >= 0 {
			pc = next
		}
	}
}

// step executes one instruction. It returns the code index to continue at,
// or -1 to fall through, and done once the method returns.
func (m *Machine) step(method *Method, ins *Instruction) (next int, done bool, err error) {
	next = -1
	switch ins.Op {
	case "sipush", "ldc":
		err = m.push(method, Value{Kind: KindInt, Int: ins.Int})

	case "iload":
		var v Value
		if v, err = m.load(ins.Int, KindInt); err == nil {
			err = m.push(method, v)
		}

	case "aload":
		var v Value
		if v, err = m.load(ins.Int, KindRef); err == nil {
			err = m.push(method, v)
		}

	case "aload_0":
		var v Value
		if v, err = m.load(0, KindRef); err == nil {
			err = m.push(method, v)
		}

	case "istore":
		var v Value
		if v, err = m.pop(KindInt); err == nil {
			err = m.store(ins.Int, v)
		}

	case "astore":
		var v Value
		if v, err = m.pop(KindRef); err == nil {
			err = m.store(ins.Int, v)
		}

	case "iadd", "isub", "imul", "idiv":
		var a, b int32
		if b, a, err = m.popInts(); err != nil {
			return
		}
		var r int32
		switch ins.Op {
		case "iadd":
			r = a + b
		case "isub":
			r = a - b
		case "imul":
			r = a * b
		case "idiv":
			if b == 0 {
				return next, false, ErrDivideByZero
			}
			r = a / b
		}
		err = m.push(method, Value{Kind: KindInt, Int: r})

	case "goto":
		next = ins.Target

	case "if_icmpeq", "if_icmpne", "if_icmplt", "if_icmpge", "if_icmpgt", "if_icmple":
		var a, b int32
		if b, a, err = m.popInts(); err != nil {
			return
		}
		if compare(ins.Op, a, b) {
			next = ins.Target
		}

	case "dup":
		if len(m.stack) == 0 {
			return next, false, ErrStackUnderflow
		}
		err = m.push(method, m.stack[len(m.stack)-1])

	case "return":
		done = true

	default:
		err = m.invoke(method, ins)
	}
	return
}

func compare(op string, a, b int32) bool {
	switch op {
	case "if_icmpeq":
		return a == b
	case "if_icmpne":
		return a != b
	case "if_icmplt":
		return a < b
	case "if_icmpge":
		return a >= b
	case "if_icmpgt":
		return a > b
	default: // if_icmple
		return a <= b
	}
}

// invoke handles the object-model instructions for the handful of library
// members generated code touches.
func (m *Machine) invoke(method *Method, ins *Instruction) error {
	ref := ins.Op + " " + ins.Arg
	switch ref {
	case "new java/util/Scanner":
		return m.push(method, Value{Kind: KindRef, Ref: &scanner{}})

	case "getstatic java/lang/System/in Ljava/io/InputStream;":
		return m.push(method, Value{Kind: KindRef, Ref: inputStream{}})

	case "getstatic java/lang/System/out Ljava/io/PrintStream;":
		return m.push(method, Value{Kind: KindRef, Ref: printStream{}})

	case "invokespecial java/util/Scanner/<init>(Ljava/io/InputStream;)V":
		stream, err := m.pop(KindRef)
		if err != nil {
			return err
		}
		obj, err := m.pop(KindRef)
		if err != nil {
			return err
		}
		sc, ok := obj.Ref.(*scanner)
		if _, isStream := stream.Ref.(inputStream); !ok || !isStream {
			return ErrTypeMismatch
		}
		if m.words == nil {
			m.words = bufio.NewScanner(m.stdin)
			m.words.Split(bufio.ScanWords)
		}
		sc.bound = true
		return nil

	case "invokenonvirtual java/lang/Object/<init>()V", "invokespecial java/lang/Object/<init>()V":
		_, err := m.pop(KindRef)
		return err

	case "invokevirtual java/util/Scanner/nextInt()I":
		obj, err := m.pop(KindRef)
		if err != nil {
			return err
		}
		sc, ok := obj.Ref.(*scanner)
		if !ok || !sc.bound {
			return ErrTypeMismatch
		}
		if !m.words.Scan() {
			if err := m.words.Err(); err != nil {
				return err
			}
			return ErrNoInput
		}
		n, err := strconv.ParseInt(m.words.Text(), 10, 32)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInputMismatch, m.words.Text())
		}
		return m.push(method, Value{Kind: KindInt, Int: int32(n)})

	case "invokestatic java/lang/String/valueOf(I)Ljava/lang/String;":
		v, err := m.pop(KindInt)
		if err != nil {
			return err
		}
		return m.push(method, Value{Kind: KindRef, Ref: strconv.Itoa(int(v.Int))})

	case "invokevirtual java/io/PrintStream/println(Ljava/lang/String;)V":
		s, err := m.pop(KindRef)
		if err != nil {
			return err
		}
		obj, err := m.pop(KindRef)
		if err != nil {
			return err
		}
		text, ok := s.Ref.(string)
		if _, isOut := obj.Ref.(printStream); !ok || !isOut {
			return ErrTypeMismatch
		}
		_, err = io.WriteString(m.stdout, text+"\n")
		return err

	default:
		return fmt.Errorf("%w: %s", ErrUnsupported, ref)
	}
}

func (m *Machine) push(method *Method, v Value) error {
	if len(m.stack) >= method.Stack {
		return ErrStackOverflow
	}
	m.stack = append(m.stack, v)
	return nil
}

func (m *Machine) pop(kind Kind) (Value, error) {
	if len(m.stack) == 0 {
		return Value{}, ErrStackUnderflow
	}
	v := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	if v.Kind != kind {
		return Value{}, ErrTypeMismatch
	}
	return v, nil
}

// popInts pops the top two ints, top first.
func (m *Machine) popInts() (top, below int32, err error) {
	b, err := m.pop(KindInt)
	if err != nil {
		return 0, 0, err
	}
	a, err := m.pop(KindInt)
	if err != nil {
		return 0, 0, err
	}
	return b.Int, a.Int, nil
}

func (m *Machine) load(slot int32, kind Kind) (Value, error) {
	if int(slot) >= len(m.locals) {
		return Value{}, fmt.Errorf("%w: slot %d beyond .limit locals %d", ErrBadLocal, slot, len(m.locals))
	}
	v := m.locals[slot]
	if v.Kind == KindUnset {
		return Value{}, fmt.Errorf("%w: slot %d read before assignment", ErrBadLocal, slot)
	}
	if v.Kind != kind {
		return Value{}, ErrTypeMismatch
	}
	return v, nil
}

func (m *Machine) store(slot int32, v Value) error {
	if int(slot) >= len(m.locals) {
		return fmt.Errorf("%w: slot %d beyond .limit locals %d", ErrBadLocal, slot, len(m.locals))
	}
	m.locals[slot] = v
	return nil
}
