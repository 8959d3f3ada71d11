package derive

import (
	"fmt"

	"github.com/shopspring/decimal"

	"poolScope/internal/model"
)

// Quoter is the pricing rule of a pool. The set of implementations is closed:
// ConstantProduct, OffsetConstantProduct, Oracle and OracleV2.
type Quoter interface {
	Kind() model.QuoterVariant
	quoter()
}

// ConstantProduct prices side 0 from the pool's own balance ratio.
type ConstantProduct struct{}

// OffsetConstantProduct is a constant-product quoter with a virtual reserve
// added to side 1. Offset is in side-1 base units.
type OffsetConstantProduct struct {
	Offset decimal.Decimal
}

// Oracle prices both sides from registered oracle feeds.
type Oracle struct {
	Index0 uint64
	Index1 uint64
}

// OracleV2 prices both sides from oracle feeds and carries an amplification
// parameter used by the on-chain swap curve.
type OracleV2 struct {
	Index0        uint64
	Index1        uint64
	Amplification decimal.Decimal
}

func (ConstantProduct) Kind() model.QuoterVariant       { return model.QuoterConstantProduct }
func (OffsetConstantProduct) Kind() model.QuoterVariant { return model.QuoterOffsetConstantProduct }
func (Oracle) Kind() model.QuoterVariant                { return model.QuoterOracle }
func (OracleV2) Kind() model.QuoterVariant              { return model.QuoterOracleV2 }

func (ConstantProduct) quoter()       {}
func (OffsetConstantProduct) quoter() {}
func (Oracle) quoter()                {}
func (OracleV2) quoter()              {}

// QuoterTypes holds the fully-qualified quoter type strings of a deployment.
type QuoterTypes struct {
	ConstantProduct string
	Oracle          string
	OracleV2        string
}

// ClassifyQuoter decides the pricing variant of a pool from its quoter type tag.
func ClassifyQuoter(tag string, fields model.QuoterFields, types QuoterTypes) (Quoter, error) {
	normalized := model.NormalizeTypeTag(tag)
	if normalized == "" {
		return nil, fmt.Errorf("%w: empty tag", ErrUnknownQuoter)
	}

	switch normalized {
	case model.NormalizeTypeTag(types.Oracle):
		idx0, idx1, err := oracleIndices(fields)
		if err != nil {
			return nil, err
		}
		return Oracle{Index0: idx0, Index1: idx1}, nil
	case model.NormalizeTypeTag(types.OracleV2):
		idx0, idx1, err := oracleIndices(fields)
		if err != nil {
			return nil, err
		}
		q := OracleV2{Index0: idx0, Index1: idx1}
		if fields.Amplification != nil {
			q.Amplification = *fields.Amplification
		}
		return q, nil
	case model.NormalizeTypeTag(types.ConstantProduct):
		if fields.Offset != nil && !fields.Offset.IsZero() {
			return OffsetConstantProduct{Offset: *fields.Offset}, nil
		}
		return ConstantProduct{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownQuoter, tag)
	}
}

func oracleIndices(fields model.QuoterFields) (uint64, uint64, error) {
	if fields.OracleIndex0 == nil {
		return 0, 0, fmt.Errorf("%w: oracle index x", ErrMissingQuoterField)
	}
	if fields.OracleIndex1 == nil {
		return 0, 0, fmt.Errorf("%w: oracle index y", ErrMissingQuoterField)
	}
	return *fields.OracleIndex0, *fields.OracleIndex1, nil
}
