package bytecode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/AlhaqGH/pohlang/internal/value"
)

// .pbc file format, with two deliberate extensions:
//
//   - a `flags` u32 sits between `version` and `const_pool_size`; bit 0
//     signals that a debug_info section follows the code section, using
//     the reserved header slot for that purpose.
//   - TaggedConstant gets a fifth tag (4 = FunctionProto) beyond the
//     base Number/String/Boolean/Null set, since a closure-capable
//     language must be able to round-trip a compiled function value
//     through the constant pool; a FunctionProto constant recursively
//     serializes its own nested Chunk.
const (
	pbcMagic = "POHC"

	constTagNumber   = 0
	constTagString   = 1
	constTagBool     = 2
	constTagNull     = 3
	constTagFunction = 4

	debugInfoFlag = 1 << 0
)

// Serialize encodes chunk into the .pbc binary format. includeDebugInfo
// controls whether the source line map and variable names are written.
func Serialize(chunk *Chunk, includeDebugInfo bool) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteString(pbcMagic)
	writeU32(buf, FormatVersion)
	var flags uint32
	if includeDebugInfo {
		flags |= debugInfoFlag
	}
	writeU32(buf, flags)

	if err := writeChunkBody(buf, chunk, includeDebugInfo); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeChunkBody(buf *bytes.Buffer, chunk *Chunk, includeDebugInfo bool) error {
	writeU32(buf, uint32(len(chunk.Constants)))
	for _, c := range chunk.Constants {
		if err := writeConstant(buf, c, includeDebugInfo); err != nil {
			return err
		}
	}

	writeU32(buf, uint32(len(chunk.Code)))
	for _, ins := range chunk.Code {
		buf.WriteByte(byte(ins.Op))
		writeI32(buf, ins.A)
	}

	if includeDebugInfo {
		writeString(buf, chunk.Debug.SourceFile)
		for _, line := range chunk.Debug.LineNumbers {
			writeU32(buf, uint32(line))
		}
		writeU32(buf, uint32(len(chunk.Debug.VariableNames)))
		for _, name := range chunk.Debug.VariableNames {
			writeString(buf, name)
		}
	}
	return nil
}

func writeConstant(buf *bytes.Buffer, v value.Value, includeDebugInfo bool) error {
	switch t := v.(type) {
	case value.Number:
		buf.WriteByte(constTagNumber)
		var bits [8]byte
		binary.LittleEndian.PutUint64(bits[:], math.Float64bits(float64(t)))
		buf.Write(bits[:])
	case value.String:
		buf.WriteByte(constTagString)
		writeString(buf, string(t))
	case value.Bool:
		buf.WriteByte(constTagBool)
		if t {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	case *FunctionProto:
		buf.WriteByte(constTagFunction)
		writeString(buf, t.Name)
		writeU32(buf, uint32(len(t.ParamNames)))
		for i, p := range t.ParamNames {
			writeString(buf, p)
			if t.HasDefault[i] {
				buf.WriteByte(1)
			} else {
				buf.WriteByte(0)
			}
		}
		writeU32(buf, uint32(t.NumLocals))
		writeU32(buf, uint32(len(t.Upvalues)))
		for _, u := range t.Upvalues {
			if u.FromParentLocal {
				buf.WriteByte(1)
			} else {
				buf.WriteByte(0)
			}
			writeU32(buf, uint32(u.Index))
		}
		return writeChunkBody(buf, t.Chunk, includeDebugInfo)
	default:
		if v == value.Null {
			buf.WriteByte(constTagNull)
			return nil
		}
		return fmt.Errorf("bytecode: cannot serialize constant of type %s", v.Type())
	}
	return nil
}

// Deserialize decodes a .pbc file's bytes back into a Chunk. The reader's
// FormatVersion must match the file's version exactly.
func Deserialize(data []byte) (*Chunk, error) {
	r := bytes.NewReader(data)
	magic := make([]byte, 4)
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("bytecode: truncated header: %w", err)
	}
	if string(magic) != pbcMagic {
		return nil, fmt.Errorf("bytecode: bad magic %q, expected %q", magic, pbcMagic)
	}
	version, err := readU32(r)
	if err != nil {
		return nil, err
	}
	if version != FormatVersion {
		return nil, fmt.Errorf("bytecode: incompatible version %d, this build reads %d", version, FormatVersion)
	}
	flags, err := readU32(r)
	if err != nil {
		return nil, err
	}
	return readChunkBody(r, flags&debugInfoFlag != 0, "")
}

func readChunkBody(r *bytes.Reader, hasDebug bool, sourceFile string) (*Chunk, error) {
	chunk := NewChunk(sourceFile)

	n, err := readU32(r)
	if err != nil {
		return nil, err
	}
	chunk.Constants = make([]value.Value, 0, n)
	for i := uint32(0); i < n; i++ {
		c, err := readConstant(r, hasDebug)
		if err != nil {
			return nil, err
		}
		chunk.Constants = append(chunk.Constants, c)
	}

	codeLen, err := readU32(r)
	if err != nil {
		return nil, err
	}
	chunk.Code = make([]Instruction, codeLen)
	for i := range chunk.Code {
		opByte, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		a, err := readI32(r)
		if err != nil {
			return nil, err
		}
		chunk.Code[i] = Instruction{Op: OpCode(opByte), A: a}
	}

	if hasDebug {
		sf, err := readString(r)
		if err != nil {
			return nil, err
		}
		chunk.Debug.SourceFile = sf
		chunk.Debug.LineNumbers = make([]int, codeLen)
		for i := range chunk.Debug.LineNumbers {
			line, err := readU32(r)
			if err != nil {
				return nil, err
			}
			chunk.Debug.LineNumbers[i] = int(line)
		}
		nameCount, err := readU32(r)
		if err != nil {
			return nil, err
		}
		chunk.Debug.VariableNames = make([]string, nameCount)
		for i := range chunk.Debug.VariableNames {
			name, err := readString(r)
			if err != nil {
				return nil, err
			}
			chunk.Debug.VariableNames[i] = name
		}
	}
	return chunk, nil
}

func readConstant(r *bytes.Reader, hasDebug bool) (value.Value, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	switch tag {
	case constTagNumber:
		var bits [8]byte
		if _, err := io.ReadFull(r, bits[:]); err != nil {
			return nil, err
		}
		return value.Number(math.Float64frombits(binary.LittleEndian.Uint64(bits[:]))), nil
	case constTagString:
		s, err := readString(r)
		if err != nil {
			return nil, err
		}
		return value.String(s), nil
	case constTagBool:
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		return value.Bool(b != 0), nil
	case constTagNull:
		return value.Null, nil
	case constTagFunction:
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		paramCount, err := readU32(r)
		if err != nil {
			return nil, err
		}
		params := make([]string, paramCount)
		defaults := make([]bool, paramCount)
		for i := range params {
			p, err := readString(r)
			if err != nil {
				return nil, err
			}
			d, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			params[i] = p
			defaults[i] = d != 0
		}
		numLocals, err := readU32(r)
		if err != nil {
			return nil, err
		}
		upCount, err := readU32(r)
		if err != nil {
			return nil, err
		}
		upvalues := make([]UpvalueDef, upCount)
		for i := range upvalues {
			fromLocal, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			idx, err := readU32(r)
			if err != nil {
				return nil, err
			}
			upvalues[i] = UpvalueDef{FromParentLocal: fromLocal != 0, Index: int(idx)}
		}
		nested, err := readChunkBody(r, hasDebug, name)
		if err != nil {
			return nil, err
		}
		return &FunctionProto{
			Name: name, ParamNames: params, HasDefault: defaults,
			NumLocals: int(numLocals), Chunk: nested, Upvalues: upvalues,
		}, nil
	default:
		return nil, fmt.Errorf("bytecode: unknown constant tag %d", tag)
	}
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeI32(buf *bytes.Buffer, v int32) { writeU32(buf, uint32(v)) }

func writeString(buf *bytes.Buffer, s string) {
	writeU32(buf, uint32(len(s)))
	buf.WriteString(s)
}

func readU32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func readI32(r *bytes.Reader) (int32, error) {
	v, err := readU32(r)
	return int32(v), err
}

func readString(r *bytes.Reader) (string, error) {
	n, err := readU32(r)
	if err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}
