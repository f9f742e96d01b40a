package hier

import (
	"fmt"

	"github.com/arloliu/fstdump/errs"
	"github.com/arloliu/fstdump/internal/bitio"
)

// Parser walks a decompressed hierarchy buffer and dispatches each tagged
// entry to a sub-parser, tracking the implicit running variable-ID counter
// across VAR entries.
//
// A Parser must not be shared across goroutines. The counter is scoped to a
// single Parse call: Parse resets it to 0 before walking the buffer, per
// spec.md §9's "global counter avoidance" design note.
type Parser struct {
	nextID uint64
}

// NewParser creates a Parser with its variable-ID counter reset to 0.
func NewParser() *Parser {
	return &Parser{}
}

// Parse walks data from offset 0 until exhausted, dispatching each leading
// tag byte to its sub-parser. An unregistered tag is a fatal error carrying
// the offset and a forensic preview (spec.md §4.9, §7).
func (p *Parser) Parse(data []byte) (*Result, error) {
	r := bitio.NewReader(data)

	p.nextID = 0

	result := &Result{
		TotalLen: len(data),
		Data:     []any{},
	}

	for r.Tell() < len(data) {
		off := r.Tell()
		tag := data[off]

		rec, err := p.dispatch(r, tag, off, data)
		if err != nil {
			return nil, err
		}

		consumed := r.Tell() - off
		if consumed <= 0 {
			return nil, fmt.Errorf("%w: subparser for tag %d at offset %d consumed %d bytes: %s",
				errs.ErrAssertionViolation, tag, off, consumed, errs.Preview(data, off))
		}

		result.Data = append(result.Data, rec)
	}

	result.Consumed = r.Tell()

	return result, nil
}

func (p *Parser) dispatch(r *bitio.Reader, tag uint8, off int, data []byte) (any, error) {
	switch {
	case tag == TagScope:
		return parseScope(r)
	case tag == TagUpscope:
		return parseUpscope(r)
	case tag == TagAttrBegin:
		return parseAttrBegin(r)
	case tag == TagAttrEnd:
		return parseAttrEnd(r)
	case isVarTag(tag):
		return p.parseVar(r)
	default:
		return nil, fmt.Errorf("%w: tag %d at offset %d: %s", errs.ErrUnregisteredHierarchyTag, tag, off, errs.Preview(data, off))
	}
}

func parseScope(r *bitio.Reader) (*ScopeRecord, error) {
	start := r.Tell()

	if _, err := r.U8(); err != nil { // tag
		return nil, err
	}

	scopeType, err := r.U8()
	if err != nil {
		return nil, err
	}

	name, err := r.ReadCString()
	if err != nil {
		return nil, err
	}

	component, err := r.ReadCString()
	if err != nil {
		return nil, err
	}

	return &ScopeRecord{
		Type:          "SCOPE",
		ScopeTypeNum:  scopeType,
		ScopeTypeName: ScopeType(scopeType).String(),
		Name:          name,
		Component:     component,
		Offset:        start,
	}, nil
}

func parseUpscope(r *bitio.Reader) (*UpscopeRecord, error) {
	start := r.Tell()

	if _, err := r.U8(); err != nil { // tag
		return nil, err
	}

	return &UpscopeRecord{Type: "UPSCOPE", Offset: start}, nil
}

func parseAttrBegin(r *bitio.Reader) (*AttrBeginRecord, error) {
	start := r.Tell()

	if _, err := r.U8(); err != nil { // tag
		return nil, err
	}

	attrType, err := r.U8()
	if err != nil {
		return nil, err
	}

	if attrType != 0 {
		return nil, fmt.Errorf("%w: ATTRBEGIN attrtype %d at offset %d not supported", errs.ErrAssertionViolation, attrType, start)
	}

	subtype, err := r.U8()
	if err != nil {
		return nil, err
	}

	rec := &AttrBeginRecord{
		Type:     "ATTRBEGIN",
		AttrType: attrType,
		Subtype:  subtype,
		Offset:   start,
	}

	if subtype == 4 || subtype == 5 {
		arg1, _, err := r.ReadULEB128()
		if err != nil {
			return nil, err
		}

		nul, err := r.U8()
		if err != nil {
			return nil, err
		}
		if nul != 0 {
			return nil, fmt.Errorf("%w: ATTRBEGIN subtype %d at offset %d missing NUL separator", errs.ErrAssertionViolation, subtype, start)
		}

		arg2, _, err := r.ReadULEB128()
		if err != nil {
			return nil, err
		}

		rec.AttrValue1 = arg1
		rec.AttrValue2 = arg2
	} else {
		name, err := r.ReadCString()
		if err != nil {
			return nil, err
		}

		arg, _, err := r.ReadULEB128()
		if err != nil {
			return nil, err
		}

		rec.AttrStr = name
		rec.AttrValue = arg
	}

	return rec, nil
}

func parseAttrEnd(r *bitio.Reader) (*AttrEndRecord, error) {
	start := r.Tell()

	if _, err := r.U8(); err != nil { // tag
		return nil, err
	}

	return &AttrEndRecord{Type: "ATTREND", Offset: start}, nil
}

func (p *Parser) parseVar(r *bitio.Reader) (*VarRecord, error) {
	start := r.Tell()

	varType, err := r.U8()
	if err != nil {
		return nil, err
	}

	varDir, err := r.U8()
	if err != nil {
		return nil, err
	}

	name, err := r.ReadCString()
	if err != nil {
		return nil, err
	}

	bitLength, _, err := r.ReadULEB128()
	if err != nil {
		return nil, err
	}

	alias, _, err := r.ReadULEB128()
	if err != nil {
		return nil, err
	}

	var (
		varID   uint64
		isAlias bool
	)

	if alias == 0 {
		varID = p.nextID
		p.nextID++
	} else {
		varID = alias - 1
		isAlias = true
	}

	return &VarRecord{
		Type:        "VAR",
		VarTypeNum:  varType,
		VarDirNum:   varDir,
		VarTypeName: VarType(varType).String(),
		Name:        name,
		BitLength:   bitLength,
		Alias:       alias,
		IsAlias:     isAlias,
		VarID:       varID,
		Offset:      start,
	}, nil
}
