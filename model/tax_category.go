package model

import "fmt"

// TaxRegime distinguishes swing-trade from day-trade treatment.
type TaxRegime string

const (
	RegimeSwing TaxRegime = "SWING"
	RegimeDay   TaxRegime = "DAY"
)

// QuotaVintage splits fund quotas by the 2026 tax-reform cutover date
// (§3.1), since FII/FIAGRO/FI_INFRA quotas acquired before versus after
// that date are taxed under different rules (§4.F, SPEC_FULL §12).
type QuotaVintage string

const (
	VintageNone    QuotaVintage = ""
	VintagePre2026 QuotaVintage = "PRE_2026"
	VintagePost2026 QuotaVintage = "POST_2026"
)

// fundKinds is the set of AssetKind values whose TaxCategory further
// splits by QuotaVintage (§3.1: "FII/FIAGRO/FI_INFRA further split by
// quota vintage").
var fundKinds = map[AssetKind]bool{
	KindFII:     true,
	KindFIAGRO:  true,
	KindFIInfra: true,
}

// TaxCategory is the cross product named in §3.1: instrument kind x
// swing/day regime, with fund kinds further split by quota vintage.
// It is represented as a string so it can be used directly as a map key
// and a store column, matching LossCarryforward.TaxCategory's db shape.
type TaxCategory string

// NewTaxCategory builds the canonical TaxCategory string for a kind,
// regime, and (for fund kinds) quota vintage. Vintage is ignored for
// non-fund kinds.
func NewTaxCategory(kind AssetKind, regime TaxRegime, vintage QuotaVintage) TaxCategory {
	if fundKinds[kind] {
		return TaxCategory(fmt.Sprintf("%s/%s/%s", kind, regime, vintage))
	}
	return TaxCategory(fmt.Sprintf("%s/%s", kind, regime))
}

// IsFundCategory reports whether kind participates in vintage splitting.
func IsFundCategory(kind AssetKind) bool {
	return fundKinds[kind]
}
