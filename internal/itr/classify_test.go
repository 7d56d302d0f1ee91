package itr

import (
	"testing"

	"itrportal/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		sources   models.IncomeSources
		wantType  models.ItrType
		wantPrice int
	}{
		{
			name:      "nothing declared",
			sources:   models.IncomeSources{},
			wantType:  models.ITR1,
			wantPrice: 299,
		},
		{
			name:      "salary only",
			sources:   models.IncomeSources{SalaryIncome: true},
			wantType:  models.ITR1,
			wantPrice: 299,
		},
		{
			name:      "salary rental and other sources",
			sources:   models.IncomeSources{SalaryIncome: true, RentalIncome: true, OtherSources: true},
			wantType:  models.ITR1,
			wantPrice: 299,
		},
		{
			name:      "capital gains without business",
			sources:   models.IncomeSources{SalaryIncome: true, CapitalGains: true},
			wantType:  models.ITR2,
			wantPrice: 1499,
		},
		{
			name:      "foreign income without business",
			sources:   models.IncomeSources{ForeignSource: true},
			wantType:  models.ITR2,
			wantPrice: 1499,
		},
		{
			name:      "business only",
			sources:   models.IncomeSources{Business: true},
			wantType:  models.ITR4,
			wantPrice: 799,
		},
		{
			name:      "business with salary and rental",
			sources:   models.IncomeSources{Business: true, SalaryIncome: true, RentalIncome: true},
			wantType:  models.ITR4,
			wantPrice: 799,
		},
		{
			name:      "business with capital gains",
			sources:   models.IncomeSources{Business: true, CapitalGains: true},
			wantType:  models.ITR3,
			wantPrice: 1999,
		},
		{
			name:      "business with foreign income",
			sources:   models.IncomeSources{Business: true, ForeignSource: true},
			wantType:  models.ITR3,
			wantPrice: 1999,
		},
		{
			name: "everything declared",
			sources: models.IncomeSources{
				SalaryIncome:  true,
				RentalIncome:  true,
				Business:      true,
				CapitalGains:  true,
				OtherSources:  true,
				ForeignSource: true,
			},
			wantType:  models.ITR3,
			wantPrice: 1999,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, gotPrice := Classify(tt.sources)
			if gotType != tt.wantType || gotPrice != tt.wantPrice {
				t.Errorf("Classify(%+v) = (%s, %d); want (%s, %d)",
					tt.sources, gotType, gotPrice, tt.wantType, tt.wantPrice)
			}
		})
	}
}

// Classify must be total and deterministic over the whole input space.
func TestClassifyTotal(t *testing.T) {
	for mask := 0; mask < 64; mask++ {
		src := models.IncomeSources{
			SalaryIncome:  mask&1 != 0,
			RentalIncome:  mask&2 != 0,
			Business:      mask&4 != 0,
			CapitalGains:  mask&8 != 0,
			OtherSources:  mask&16 != 0,
			ForeignSource: mask&32 != 0,
		}

		itrType, price := Classify(src)
		again, priceAgain := Classify(src)
		if itrType != again || price != priceAgain {
			t.Fatalf("Classify(%+v) not deterministic", src)
		}

		switch itrType {
		case models.ITR1:
			if src.Business || src.CapitalGains || src.ForeignSource {
				t.Errorf("Classify(%+v) = ITR1 despite business/gains/foreign", src)
			}
		case models.ITR2:
			if src.Business || !(src.CapitalGains || src.ForeignSource) {
				t.Errorf("Classify(%+v) = ITR2 unexpectedly", src)
			}
		case models.ITR3:
			if !src.Business || !(src.CapitalGains || src.ForeignSource) {
				t.Errorf("Classify(%+v) = ITR3 unexpectedly", src)
			}
		case models.ITR4:
			if !src.Business || src.CapitalGains || src.ForeignSource {
				t.Errorf("Classify(%+v) = ITR4 unexpectedly", src)
			}
		default:
			t.Fatalf("Classify(%+v) returned unknown type %q", src, itrType)
		}
	}
}
