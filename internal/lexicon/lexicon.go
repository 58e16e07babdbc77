// Package lexicon holds the fixed evidence-term tables used by the scorers.
//
// Indicator categories hold surface strings (often multi-word phrases) that
// are matched as substrings of the lowercased abstract. Interaction
// categories hold single-token lemmas matched against a normalized token
// set. Categories may share terms; overlap is intentional and never
// deduplicated.
package lexicon

import "strings"

// Indicator category names, in output order.
const (
	ClinicalStudy   = "clinical_study"
	CaseReport      = "case_report"
	AnimalEvidence  = "animal_evidence"
	CellLine        = "cell_line"
	ImagingEvidence = "imaging_evidence"
	Retrospective   = "retrospective"
)

// Interaction category names, in output order.
const (
	DirectInteraction     = "direct_interaction"
	BindingInteraction    = "binding_interaction"
	RegulationChanges     = "regulation_changes"
	SensitivityResistance = "sensitivity_resistance"
	Pharmacogenomic       = "pharmacogenomic_signal"
)

// TotalField is the derived sum column appended to every score row.
const TotalField = "unweighted_total"

// Category is a named term set. Terms are stored lowercased so every entry
// is reachable when matched against lowercased text.
type Category struct {
	Name  string
	Terms []string
}

// IndicatorCategories lists the six document-evidence categories in the
// order their counts are reported.
var IndicatorCategories = []Category{
	{ClinicalStudy, clinicalStudyTerms},
	{CaseReport, caseReportTerms},
	{AnimalEvidence, animalEvidenceTerms},
	{CellLine, cellLineTerms},
	{ImagingEvidence, imagingEvidenceTerms},
	{Retrospective, retrospectiveTerms},
}

// InteractionCategories lists the five gene-drug relation categories in the
// order their counts are reported.
var InteractionCategories = []Category{
	{DirectInteraction, directInteractionLemmas},
	{BindingInteraction, bindingInteractionLemmas},
	{RegulationChanges, regulationChangeLemmas},
	{SensitivityResistance, sensitivityResistanceLemmas},
	{Pharmacogenomic, pharmacogenomicLemmas},
}

var clinicalStudyTerms = []string{
	"randomized", "randomised", "placebo", "double-blind", "single-blind",
	"controlled", "trial", "pragmatic trial", "phase i", "phase ii",
	"phase iii", "phase iv", "clinical study", "clinical trial",
	"multicenter", "interventional", "crossover", "parallel group",
	"allocation", "intention-to-treat", "efficacy", "endpoint",
	"primary outcome", "progression free survival", "overall survival",
}

var caseReportTerms = []string{
	"case report", "case reports", "case series", "case study",
	"case studies", "single patient", "n-of-1",
}

var animalEvidenceTerms = []string{
	"in vivo", "xenograft", "patient-derived xenograft", "pdx",
	"orthotopic", "murine", "mouse", "mice", "rat", "rats", "zebrafish",
	"drosophila", "c. elegans", "animal model", "live animal",
}

var cellLineTerms = []string{
	"in vitro", "cell line", "cultured cells", "cell culture", "monolayer",
	"3d culture", "organoid", "primary cells", "immortalized cell line",
	"transfected cell line",
}

var imagingEvidenceTerms = []string{
	"mri", "magnetic resonance imaging", "ct", "computed tomography",
	"pet", "positron emission tomography", "ultrasound", "radiography",
	"fluorescence microscopy", "confocal microscopy", "histopathology",
	"histological imaging", "digital image analysis",
	"quantitative imaging", "imaging biomarkers",
}

var retrospectiveTerms = []string{
	"retrospective study", "retrospective analysis", "retrospective review",
	"chart review", "registry data", "historical cohort",
	"medical record review", "retrospective cohort",
}

// Interaction lemma sets. "inhibit" appears in both the direct-interaction
// and regulation-change sets; nominal forms ("binding", "inhibition") are
// kept alongside their verb lemmas so tokens the lemmatizer leaves
// unchanged still hit.

var directInteractionLemmas = []string{
	"inhibit", "inhibitor", "inhibition", "activate", "block", "target",
	"antagonize", "agonist", "antagonist", "modulate", "interact",
	"interaction",
}

var bindingInteractionLemmas = []string{
	"bind", "binding", "affinity", "ligand", "receptor", "complex",
	"dock", "substrate",
}

var regulationChangeLemmas = []string{
	"upregulate", "downregulate", "induce", "induction", "suppress",
	"overexpress", "overexpression", "silence", "knockdown", "inhibit",
	"express", "expression",
}

var sensitivityResistanceLemmas = []string{
	"resistance", "resistant", "sensitivity", "sensitive", "sensitize",
	"susceptibility", "refractory", "response", "responder",
}

var pharmacogenomicLemmas = []string{
	"pharmacogenomic", "pharmacogenetic", "polymorphism", "genotype",
	"allele", "variant", "mutation", "biomarker", "haplotype",
}

// ChemotherapyAgents is a reference set of common cytotoxic agents. It is
// not scored; it is used to flag conventional chemotherapy drugs in search
// sets and human output.
var ChemotherapyAgents = map[string]bool{
	"cyclophosphamide": true,
	"carmustine":       true,
	"cisplatin":        true,
	"carboplatin":      true,
	"oxaliplatin":      true,
	"doxorubicin":      true,
	"daunorubicin":     true,
	"daunomycin":       true,
	"idarubicin":       true,
	"fluorouracil":     true,
	"methotrexate":     true,
	"azacitidine":      true,
	"paclitaxel":       true,
	"docetaxel":        true,
	"vincristine":      true,
	"vinblastine":      true,
	"vinorelbine":      true,
	"etoposide":        true,
	"topotecan":        true,
	"irinotecan":       true,
}

// IsChemotherapyAgent reports whether name (case-insensitive) is in the
// conventional chemotherapy reference set.
func IsChemotherapyAgent(name string) bool {
	return ChemotherapyAgents[strings.ToLower(name)]
}
