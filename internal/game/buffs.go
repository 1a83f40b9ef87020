package game

import "encoding/json"

// Buffs is the aggregate effect of a user's family, partner, properties,
// pets and guild on their actions. Multipliers default to 1, regens to 0.
type Buffs struct {
	XPMult           float64 `json:"xp_mult"`
	MoneyMult        float64 `json:"money_mult"`
	WorkSuccessMult  float64 `json:"work_success_mult"`
	CrimeSuccessMult float64 `json:"crime_success_mult"`
	HappinessRegen   int64   `json:"happiness_regen"`
	EnergyRegen      int64   `json:"energy_regen"`
}

// BuffInputs carries everything the aggregator reads. PartnerAffection is
// negative when the user has no partner.
type BuffInputs struct {
	HasSpouse        bool
	KidsJSON         []byte
	PartnerAffection int64
	Properties       []PropertySpec
	Pets             []PetSpec
	GuildLevel       int
}

const maxCountedKids = 5

// ComputeBuffs folds the sources in a fixed order: family flat bonuses first
// (added as percentages into the base multipliers), then the partner tier
// applied multiplicatively, then property regens summed, then pets and guild.
// Reordering changes results, so callers must not fold pieces themselves.
func ComputeBuffs(in BuffInputs) Buffs {
	moneyPct := int64(0)
	xpPct := int64(0)
	crimePct := int64(0)

	if in.HasSpouse {
		moneyPct += 5
		xpPct += 5
	}
	if kids := decodeKids(in.KidsJSON); kids > 0 {
		if kids > maxCountedKids {
			kids = maxCountedKids
		}
		xpPct += int64(kids)
	}

	b := Buffs{
		XPMult:           1 + float64(xpPct)/100,
		MoneyMult:        1 + float64(moneyPct)/100,
		WorkSuccessMult:  1,
		CrimeSuccessMult: 1 + float64(crimePct)/100,
	}

	switch {
	case in.PartnerAffection >= 160:
		b.MoneyMult *= 1.10
		b.XPMult *= 1.10
		b.WorkSuccessMult *= 1.05
		b.CrimeSuccessMult *= 1.05
	case in.PartnerAffection >= 120:
		b.MoneyMult *= 1.05
		b.XPMult *= 1.05
		b.WorkSuccessMult *= 1.05
	case in.PartnerAffection >= 60:
		b.MoneyMult *= 1.02
	}

	for _, p := range in.Properties {
		b.HappinessRegen += p.ComfortRegen
		b.EnergyRegen += p.EnergyRegen
	}

	for _, p := range in.Pets {
		b.MoneyMult *= 1 + float64(p.MoneyPct)/100
		b.XPMult *= 1 + float64(p.XPPct)/100
		b.WorkSuccessMult *= 1 + float64(p.WorkPct)/100
		b.CrimeSuccessMult *= 1 + float64(p.CrimePct)/100
		b.HappinessRegen += p.HappinessReg
	}

	if pct := GuildBonusPct(in.GuildLevel); pct > 0 {
		b.MoneyMult *= 1 + float64(pct)/100
	}

	return b
}

// decodeKids reads the kids blob. Corrupt payloads count as no kids rather
// than failing the caller's action.
func decodeKids(raw []byte) int {
	if len(raw) == 0 {
		return 0
	}
	var kids []json.RawMessage
	if err := json.Unmarshal(raw, &kids); err != nil {
		return 0
	}
	return len(kids)
}
