package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/golang/snappy"

	"github.com/wippyai/flatdyn/config"
	"github.com/wippyai/flatdyn/reflection"
	"github.com/wippyai/flatdyn/registry"
	"github.com/wippyai/flatdyn/schema"
)

// render applies the configured compression and format to an encoded
// buffer. An automatic format writes hex to a terminal.
func render(buf []byte, out config.OutputConfig, tty bool) []byte {
	if out.Compress == config.CompressSnappy {
		buf = snappy.Encode(nil, buf)
	}
	format := out.Format
	if format == config.FormatAuto {
		format = config.FormatRaw
		if tty {
			format = config.FormatHex
		}
	}
	if format == config.FormatHex {
		return []byte(hex.Dump(buf))
	}
	return buf
}

type objectInfo struct {
	schema   string
	name     string
	isStruct bool
	isRoot   bool
	fields   []fieldInfo
}

type fieldInfo struct {
	name       string
	typeStr    string
	required   bool
	deprecated bool
}

func describeObjects(e *registry.Entry) []objectInfo {
	sc := e.Schema
	objs := make([]objectInfo, 0, len(sc.Objects))
	for _, obj := range sc.Objects {
		info := objectInfo{
			schema:   e.Name,
			name:     obj.Name,
			isStruct: obj.IsStruct,
			isRoot:   sc.RootTable == obj,
		}
		for i := range obj.Fields {
			f := &obj.Fields[i]
			info.fields = append(info.fields, fieldInfo{
				name:       f.Name,
				typeStr:    typeStr(sc, f.Type),
				required:   f.Required || obj.IsStruct,
				deprecated: f.Deprecated,
			})
		}
		objs = append(objs, info)
	}
	return objs
}

func (o objectInfo) kind() string {
	switch {
	case o.isStruct:
		return "struct"
	case o.isRoot:
		return "root table"
	default:
		return "table"
	}
}

func (o objectInfo) signature() string {
	var fields []string
	for _, f := range o.fields {
		if f.deprecated {
			continue
		}
		s := f.name + ": " + f.typeStr
		if f.required && !o.isStruct {
			s += " (required)"
		}
		fields = append(fields, s)
	}
	return fmt.Sprintf("%s %s { %s }", o.kind(), o.name, strings.Join(fields, ", "))
}

// template returns a YAML skeleton listing the fields of the object.
func (o objectInfo) template() string {
	var b strings.Builder
	for _, f := range o.fields {
		if f.deprecated {
			continue
		}
		fmt.Fprintf(&b, "# %s: %s\n", f.name, f.typeStr)
	}
	return b.String()
}

var scalarNames = map[reflection.BaseType]string{
	reflection.BaseTypeUType:  "utype",
	reflection.BaseTypeBool:   "bool",
	reflection.BaseTypeByte:   "byte",
	reflection.BaseTypeUByte:  "ubyte",
	reflection.BaseTypeShort:  "short",
	reflection.BaseTypeUShort: "ushort",
	reflection.BaseTypeInt:    "int",
	reflection.BaseTypeUInt:   "uint",
	reflection.BaseTypeLong:   "long",
	reflection.BaseTypeULong:  "ulong",
	reflection.BaseTypeFloat:  "float",
	reflection.BaseTypeDouble: "double",
	reflection.BaseTypeString: "string",
}

func typeStr(sc *schema.Schema, t schema.Type) string {
	switch t.Base {
	case reflection.BaseTypeObj:
		return objectName(sc, t.Index)
	case reflection.BaseTypeUnion:
		return enumName(sc, t.Index)
	case reflection.BaseTypeVector, reflection.BaseTypeVector64:
		return "[" + elemStr(sc, t) + "]"
	case reflection.BaseTypeArray:
		return fmt.Sprintf("[%s:%d]", elemStr(sc, t), t.FixedLength)
	}
	if t.Index >= 0 && t.Index < len(sc.Enums) {
		return enumName(sc, t.Index)
	}
	if s, ok := scalarNames[t.Base]; ok {
		return s
	}
	return t.Base.String()
}

func elemStr(sc *schema.Schema, t schema.Type) string {
	if t.Element == reflection.BaseTypeObj {
		return objectName(sc, t.Index)
	}
	if t.Index >= 0 && t.Index < len(sc.Enums) {
		return enumName(sc, t.Index)
	}
	if s, ok := scalarNames[t.Element]; ok {
		return s
	}
	return t.Element.String()
}

func objectName(sc *schema.Schema, i int) string {
	if i >= 0 && i < len(sc.Objects) {
		return sc.Objects[i].Name
	}
	return "?"
}

func enumName(sc *schema.Schema, i int) string {
	if i >= 0 && i < len(sc.Enums) {
		return sc.Enums[i].Name
	}
	return "?"
}
