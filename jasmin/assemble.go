// Package jasmin assembles and runs the subset of Jasmin JVM assembler that
// the Small compiler emits: int arithmetic, int comparisons and jumps, int
// locals, java.util.Scanner input and System.out output.
package jasmin

import (
	"fmt"
	"strconv"
	"strings"
)

// MainMethod is the signature of the entry point Run executes.
const MainMethod = "main([Ljava/lang/String;)V"

// Instruction is one assembled instruction.
type Instruction struct {
	Op     string
	Arg    string // operand text, as written
	Int    int32  // numeric operand of sipush, ldc and the load/store family
	Target int    // resolved code index of a branch target
	Line   int
}

// Method is an assembled method body.
type Method struct {
	Name   string // name and descriptor, e.g. MainMethod
	Static bool
	Locals int
	Stack  int
	Code   []Instruction
	Labels map[string]int // label name -> code index
}

// Class is an assembled class.
type Class struct {
	Name    string
	Super   string
	Methods map[string]*Method
}

// AssembleError reports a malformed line of assembler text.
type AssembleError struct {
	Line int
	Msg  string
}

func (e *AssembleError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

type operandKind int

const (
	operandNone operandKind = iota
	operandInt
	operandSlot
	operandLabel
	operandMember
)

// opcodes lists the supported instructions and the operand each takes.
var opcodes = map[string]operandKind{
	"aload_0":          operandNone,
	"iadd":             operandNone,
	"isub":             operandNone,
	"imul":             operandNone,
	"idiv":             operandNone,
	"dup":              operandNone,
	"return":           operandNone,
	"sipush":           operandInt,
	"ldc":              operandInt,
	"iload":            operandSlot,
	"istore":           operandSlot,
	"aload":            operandSlot,
	"astore":           operandSlot,
	"goto":             operandLabel,
	"if_icmpeq":        operandLabel,
	"if_icmpne":        operandLabel,
	"if_icmplt":        operandLabel,
	"if_icmpge":        operandLabel,
	"if_icmpgt":        operandLabel,
	"if_icmple":        operandLabel,
	"new":              operandMember,
	"getstatic":        operandMember,
	"invokespecial":    operandMember,
	"invokenonvirtual": operandMember,
	"invokevirtual":    operandMember,
	"invokestatic":     operandMember,
}

// Assemble parses Jasmin assembler text into a Class.
func Assemble(text string) (*Class, error) {
	class := &Class{Methods: make(map[string]*Method)}
	var method *Method

	for i, raw := range strings.Split(text, "\n") {
		lineNum := i + 1
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		fields := strings.Fields(line)

		if strings.HasPrefix(line, ".") {
			switch fields[0] {
			case ".class":
				class.Name = fields[len(fields)-1]
			case ".super":
				if len(fields) != 2 {
					return nil, &AssembleError{lineNum, "malformed .super"}
				}
				class.Super = fields[1]
			case ".method":
				if method != nil {
					return nil, &AssembleError{lineNum, "nested .method"}
				}
				if len(fields) < 2 {
					return nil, &AssembleError{lineNum, "malformed .method"}
				}
				method = &Method{Name: fields[len(fields)-1], Labels: make(map[string]int)}
				for _, access := range fields[1 : len(fields)-1] {
					if access == "static" {
						method.Static = true
					}
				}
			case ".limit":
				if method == nil {
					return nil, &AssembleError{lineNum, ".limit outside of method"}
				}
				if len(fields) != 3 {
					return nil, &AssembleError{lineNum, "malformed .limit"}
				}
				n, err := strconv.Atoi(fields[2])
				if err != nil || n < 0 {
					return nil, &AssembleError{lineNum, fmt.Sprintf("bad .limit value %q", fields[2])}
				}
				switch fields[1] {
				case "locals":
					method.Locals = n
				case "stack":
					method.Stack = n
				default:
					return nil, &AssembleError{lineNum, fmt.Sprintf("unknown .limit %q", fields[1])}
				}
			case ".end":
				if method == nil || len(fields) != 2 || fields[1] != "method" {
					return nil, &AssembleError{lineNum, "unexpected .end"}
				}
				if err := resolveLabels(method); err != nil {
					return nil, err
				}
				class.Methods[method.Name] = method
				method = nil
			default:
				return nil, &AssembleError{lineNum, fmt.Sprintf("unknown directive %s", fields[0])}
			}
			continue
		}

		if method == nil {
			return nil, &AssembleError{lineNum, "instruction outside of method"}
		}

		if len(fields) == 1 && strings.HasSuffix(line, ":") {
			name := strings.TrimSuffix(line, ":")
			if _, dup := method.Labels[name]; dup {
				return nil, &AssembleError{lineNum, fmt.Sprintf("duplicate label %s", name)}
			}
			method.Labels[name] = len(method.Code)
			continue
		}

		ins, err := parseInstruction(fields, lineNum)
		if err != nil {
			return nil, err
		}
		method.Code = append(method.Code, ins)
	}

	if method != nil {
		return nil, &AssembleError{len(strings.Split(text, "\n")), "missing .end method"}
	}
	return class, nil
}

func parseInstruction(fields []string, lineNum int) (Instruction, error) {
	ins := Instruction{Op: fields[0], Arg: strings.Join(fields[1:], " "), Line: lineNum}

	kind, ok := opcodes[ins.Op]
	if !ok {
		return ins, &AssembleError{lineNum, fmt.Sprintf("unsupported instruction %s", ins.Op)}
	}

	switch kind {
	case operandNone:
		if ins.Arg != "" {
			return ins, &AssembleError{lineNum, fmt.Sprintf("%s takes no operand", ins.Op)}
		}
	case operandInt, operandSlot:
		if len(fields) != 2 {
			return ins, &AssembleError{lineNum, fmt.Sprintf("%s takes one operand", ins.Op)}
		}
		n, err := strconv.ParseInt(fields[1], 10, 32)
		if err != nil {
			return ins, &AssembleError{lineNum, fmt.Sprintf("bad operand %q for %s", fields[1], ins.Op)}
		}
		if ins.Op == "sipush" && (n < -32768 || n > 32767) {
			return ins, &AssembleError{lineNum, fmt.Sprintf("sipush operand %d out of range", n)}
		}
		if kind == operandSlot && (n < 0 || n > 65535) {
			return ins, &AssembleError{lineNum, fmt.Sprintf("bad local slot %d", n)}
		}
		ins.Int = int32(n)
	case operandLabel:
		if len(fields) != 2 {
			return ins, &AssembleError{lineNum, fmt.Sprintf("%s takes one label", ins.Op)}
		}
	case operandMember:
		if ins.Arg == "" {
			return ins, &AssembleError{lineNum, fmt.Sprintf("%s needs a member reference", ins.Op)}
		}
		ins.Arg = normalizeMember(ins.Arg)
	}
	return ins, nil
}

func resolveLabels(m *Method) error {
	for i := range m.Code {
		ins := &m.Code[i]
		if opcodes[ins.Op] != operandLabel {
			continue
		}
		target, ok := m.Labels[ins.Arg]
		if !ok {
			return &AssembleError{ins.Line, fmt.Sprintf("undefined label %s", ins.Arg)}
		}
		ins.Target = target
	}
	return nil
}

// normalizeMember rewrites the class/member part of a reference to use '/'
// throughout, so "java/lang/System.in" and "java/lang/System/in" agree.
func normalizeMember(ref string) string {
	end := strings.IndexAny(ref, " (")
	if end < 0 {
		end = len(ref)
	}
	return strings.ReplaceAll(ref[:end], ".", "/") + ref[end:]
}
