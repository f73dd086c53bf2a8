package wordnet

import "strings"

type substitution struct {
	old, new string
}

// substitutions are the detachment rules per part of speech, tried in
// order on every candidate form.
var substitutions = map[string][]substitution{
	Noun: {
		{"s", ""}, {"ses", "s"}, {"ves", "f"}, {"xes", "x"}, {"zes", "z"},
		{"ches", "ch"}, {"shes", "sh"}, {"men", "man"}, {"ies", "y"},
	},
	Verb: {
		{"s", ""}, {"ies", "y"}, {"es", "e"}, {"es", ""},
		{"ed", "e"}, {"ed", ""}, {"ing", "e"}, {"ing", ""},
	},
	Adj: {
		{"er", ""}, {"est", ""}, {"er", "e"}, {"est", "e"},
	},
	AdjSat: {
		{"er", ""}, {"est", ""}, {"er", "e"}, {"est", "e"},
	},
	Adv: nil,
}

// Morphy returns the first base form of form found in the database,
// trying each part of speech of POSList when pos is empty.
func (wn *WordNet) Morphy(form, pos string) (string, bool) {
	if forms := wn.BaseForms(form, pos); len(forms) > 0 {
		return forms[0], true
	}
	return "", false
}

// BaseForms returns every base form of form present in the database
// for pos (all parts of speech when empty), without duplicates.
func (wn *WordNet) BaseForms(form, pos string) []string {
	form = normalizeLemma(form)
	posList := POSList
	if pos != "" {
		posList = []string{pos}
	}
	var out []string
	seen := make(map[string]bool)
	for _, p := range posList {
		for _, f := range wn.morphy(form, p) {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	return out
}

// morphy finds the base forms of form for one part of speech. Forms
// listed in the exception file are resolved through it alone. Otherwise
// the detachment rules are applied once and every candidate present in
// the index, including form itself, is returned; failing that the rules
// are reapplied to the candidates until some are found or none remain.
func (wn *WordNet) morphy(form, pos string) []string {
	if bases, ok := wn.exceptions[pos][form]; ok {
		return wn.filterForms(append([]string{form}, bases...), pos)
	}

	forms := applySubstitutions([]string{form}, pos)
	if res := wn.filterForms(append([]string{form}, forms...), pos); len(res) > 0 {
		return res
	}
	for len(forms) > 0 {
		forms = applySubstitutions(forms, pos)
		if res := wn.filterForms(forms, pos); len(res) > 0 {
			return res
		}
	}
	return nil
}

func applySubstitutions(forms []string, pos string) []string {
	var out []string
	for _, f := range forms {
		for _, sub := range substitutions[pos] {
			if strings.HasSuffix(f, sub.old) {
				out = append(out, f[:len(f)-len(sub.old)]+sub.new)
			}
		}
	}
	return out
}

// filterForms keeps the forms indexed under pos, first occurrence only.
func (wn *WordNet) filterForms(forms []string, pos string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, f := range forms {
		if _, ok := wn.index[f][pos]; ok && !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
