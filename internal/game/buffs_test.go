package game

import (
	"math"
	"testing"
)

func TestComputeBuffsEmpty(t *testing.T) {
	b := ComputeBuffs(BuffInputs{PartnerAffection: -1})
	if b.XPMult != 1 || b.MoneyMult != 1 || b.CrimeSuccessMult != 1 {
		t.Fatalf("empty inputs must yield identity multipliers: %+v", b)
	}
	if b.HappinessRegen != 0 || b.EnergyRegen != 0 {
		t.Fatalf("empty inputs must yield zero regen: %+v", b)
	}
}

func TestComputeBuffsFoldOrder(t *testing.T) {
	// Spouse adds 5% flat before the partner tier multiplies, so the result
	// is (1+0.05)*1.05, not 1+0.05+0.05.
	b := ComputeBuffs(BuffInputs{
		HasSpouse:        true,
		PartnerAffection: 130,
	})
	want := 1.05 * 1.05
	if math.Abs(b.MoneyMult-want) > 1e-9 {
		t.Fatalf("money mult: got %v want %v", b.MoneyMult, want)
	}
}

func TestComputeBuffsPartnerTiers(t *testing.T) {
	tests := []struct {
		affection int64
		wantMoney float64
	}{
		{0, 1},
		{59, 1},
		{60, 1.02},
		{119, 1.02},
		{120, 1.05},
		{160, 1.10},
		{200, 1.10},
	}
	for _, tc := range tests {
		b := ComputeBuffs(BuffInputs{PartnerAffection: tc.affection})
		if math.Abs(b.MoneyMult-tc.wantMoney) > 1e-9 {
			t.Fatalf("affection=%d money mult got %v want %v", tc.affection, b.MoneyMult, tc.wantMoney)
		}
	}
}

func TestComputeBuffsPropertyRegen(t *testing.T) {
	house := properties["house"]
	villa := properties["villa"]
	b := ComputeBuffs(BuffInputs{
		PartnerAffection: -1,
		Properties:       []PropertySpec{house, villa},
	})
	if b.HappinessRegen != house.ComfortRegen+villa.ComfortRegen {
		t.Fatalf("happiness regen got %d", b.HappinessRegen)
	}
	if b.EnergyRegen != house.EnergyRegen+villa.EnergyRegen {
		t.Fatalf("energy regen got %d", b.EnergyRegen)
	}
}

func TestComputeBuffsCorruptKids(t *testing.T) {
	clean := ComputeBuffs(BuffInputs{PartnerAffection: -1})
	corrupt := ComputeBuffs(BuffInputs{PartnerAffection: -1, KidsJSON: []byte(`{"not":`)})
	if corrupt != clean {
		t.Fatalf("corrupt kids blob must act as empty: %+v vs %+v", corrupt, clean)
	}

	withKids := ComputeBuffs(BuffInputs{PartnerAffection: -1, KidsJSON: []byte(`[{"name":"a"},{"name":"b"}]`)})
	if withKids.XPMult <= clean.XPMult {
		t.Fatalf("kids must raise xp mult: %v", withKids.XPMult)
	}
}

func TestComputeBuffsWorkSuccess(t *testing.T) {
	tests := []struct {
		affection int64
		pets      []PetSpec
		want      float64
	}{
		{-1, nil, 1},
		{119, nil, 1},
		{120, nil, 1.05},
		{160, nil, 1.05},
		{-1, []PetSpec{pets["dog"]}, 1.01},
		{160, []PetSpec{pets["dog"]}, 1.05 * 1.01},
	}
	for _, tc := range tests {
		b := ComputeBuffs(BuffInputs{PartnerAffection: tc.affection, Pets: tc.pets})
		if math.Abs(b.WorkSuccessMult-tc.want) > 1e-9 {
			t.Fatalf("affection=%d work mult got %v want %v", tc.affection, b.WorkSuccessMult, tc.want)
		}
	}
}

func TestComputeBuffsPets(t *testing.T) {
	dragon := pets["dragon"]
	b := ComputeBuffs(BuffInputs{PartnerAffection: -1, Pets: []PetSpec{dragon}})
	if math.Abs(b.CrimeSuccessMult-1.05) > 1e-9 {
		t.Fatalf("dragon crime mult got %v want 1.05", b.CrimeSuccessMult)
	}
}
