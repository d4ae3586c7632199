package twolocus

import "github.com/grailbio/twolocus/track"

// SampleSet is a named group of samples commonly queried together.
type SampleSet struct {
	Name string
	// ID is a short identifier, usable as a flag value.
	ID      string
	Samples []string
}

var sampleSets = []SampleSet{
	{Name: "Classical", ID: "Classical", Samples: []string{
		"129P1/ReJ", "129P3/J", "129S1SvlmJ", "129S6", "129T2/SvEmsJ", "129X1/SvJ", "A/J", "A/WySnJ",
		"AEJ/GnLeJ", "AEJ/GnRk", "AKR/J", "ALR/LtJ", "ALS/LtJ", "BALB/cByJ", "BALB/cJ", "BDP/J",
		"BPH/2J", "BPL/1J", "BPN/3J", "BTBR T<+>tf/J", "BUB/BnJ", "BXSB/MpJ", "C3H/HeJ", "C3HeB/FeJ",
		"C57BL/10J", "C57BL/10ScNJ", "C57BL/10ScSnJ", "C57BL/6CR", "C57BL/6J", "C57BL/6NCI",
		"C57BL/6Tc", "C57BLKS/J", "C57BR/cdJ", "C57L/J", "C58/J", "CBA/CaJ", "CBA/J", "CE/J",
		"CHMU/LeJ", "DBA/1J", "DBA/1LacJ", "DBA/2DeJ", "DBA/2HaSmnJ", "DBA/2J", "DDK/Pas",
		"DDY/JclSidSeyFrkJ", "DLS/LeJ", "EL/SuzSeyFrkJ", "FVB/NJ", "HPG/BmJ", "I/LnJ", "IBWSP2",
		"IBWSR2", "ICOLD2", "IHOT1", "IHOT2", "ILS", "ISS", "JE/LeJ", "KK/HlJ", "LG/J", "LP/J",
		"LT/SvEiJ", "MRL/MpJ", "NOD/ShiLtJ", "NON/ShiLtJ", "NONcNZO10/LtJ", "NONcNZO5/LtJ", "NOR/LtJ",
		"NU/J", "NZB/BlNJ", "NZL/LtJ", "NZM2410/J", "NZO/HlLtJ", "NZW/LacJ", "P/J", "PL/J",
		"PN/nBSwUmabJ", "RF/J", "RHJ/LeJ", "RIIIS/J", "RSV/LeJ", "SB/LeJ", "SEA/GnJ", "SEC/1GnLeJ",
		"SEC/1ReJ", "SH1/LeJ", "SI/Col Tyrp1 Dnahc11/J", "SJL/Bm", "SJL/J", "SM/J", "SSL/LeJ", "ST/bJ",
		"STX/Le", "SWR/J", "TALLYHO/JngJ", "TKDU/DnJ", "TSJ/LeJ", "YBR/EiJ", "ZRDCT Rax<+>ChUmdJ",
	}},
	{Name: "Wild-derived", ID: "Wildderived", Samples: []string{
		"22MO", "BIK/g", "BULS", "BUSNA", "BZO", "CALB/RkJ", "CASA/RkJ", "CAST/EiJ", "CIM", "CKN",
		"CKS", "CZECHI/EiJ", "CZECHII/EiJ", "DCA", "DCP", "DDO", "DEB", "DGA", "DIK", "DJO", "DKN",
		"DMZ", "DOT", "IS/CamRkJ", "JF1/Ms", "LEWES/EiJ", "MBK", "MBS", "MCZ", "MDG", "MDGI", "MDH",
		"MGA", "MH", "MOLD/RkJ", "MOLF/EiJ", "MOLG/DnJ", "MOR/RkJ", "MPB", "MSM/Ms", "PERA/EiJ",
		"PERC/EiJ", "POHN/Deh", "PWD/PhJ", "PWK/PhJ", "RBA/DnJ", "RBB/DnJ", "RBF/DnJ", "SF/CamEiJ",
		"SKIVE/EiJ", "SOD1/EiJ", "STLT", "STRA", "STRB", "STUF", "STUP", "STUS", "TIRANO/EiJ", "WLA",
		"WMP", "WSB/EiJ", "ZALENDE/EiJ",
	}},
	{Name: "Wild mice", ID: "Wild", Samples: []string{
		"BAG102", "BAG3", "BAG56", "BAG68", "BAG74", "BAG94", "BAG99", "IN13", "IN17", "IN25", "IN34",
		"IN38", "IN40", "IN47", "IN54", "IN59", "IN60", "KCT222", "MWN1026", "MWN1030", "MWN1106",
		"MWN1194", "MWN1198", "MWN1214", "MWN1279", "MWN1287", "RDS10105", "RDS12763", "RDS13554",
		"Yu2095m", "Yu2097m", "Yu2099f", "Yu2113m", "Yu2115m", "Yu2116m", "Yu2120f",
	}},
	{Name: "CC Founders", ID: "Founders", Samples: []string{
		"129S1SvlmJ", "A/J", "C57BL/6J", "NOD/ShiLtJ", "NZO/HlLtJ", "CAST/EiJ", "PWK/PhJ", "WSB/EiJ",
	}},
	{Name: "Sanger", ID: "Sanger", Samples: []string{
		"129S1SvlmJ", "A/J", "AKR/J", "BALB/cJ", "C3H/HeJ", "CBA/J", "DBA/2J", "LP/J", "NOD/ShiLtJ",
		"NZO/HlLtJ", "PWK/PhJ", "CAST/EiJ", "WSB/EiJ",
	}},
}

// SampleSets returns the predefined sample sets, each restricted to the
// samples that are available.  Names are sanitized the way ingestion
// sanitizes them.  Sets with no available sample are omitted.
func (e *Engine) SampleSets() []SampleSet {
	var sets []SampleSet
	for _, set := range sampleSets {
		avail := SampleSet{Name: set.Name, ID: set.ID}
		for _, name := range set.Samples {
			if name = track.SanitizeName(name); e.store.Contains(name) {
				avail.Samples = append(avail.Samples, name)
			}
		}
		if len(avail.Samples) > 0 {
			sets = append(sets, avail)
		}
	}
	return sets
}

// SampleSet returns the predefined set with the given ID, restricted to the
// available samples.
func (e *Engine) SampleSet(id string) (SampleSet, bool) {
	for _, set := range e.SampleSets() {
		if set.ID == id {
			return set, true
		}
	}
	return SampleSet{}, false
}
