package rules

import "sort"

// Schema export: serializes the registered variables and actions plus the
// static per-kind operator tables into a document a rule-authoring UI can
// consume. Pure data transformation over registry metadata; not part of the
// evaluation path.

// ExportedVariable describes one variable in exported rule data.
type ExportedVariable struct {
	Name      string     `json:"name"`
	Label     string     `json:"label"`
	FieldType string     `json:"field_type"`
	Options   []string   `json:"options"`
	Params    []ParamDef `json:"params"`
	Tooltip   string     `json:"tooltip"`
}

// ExportedAction describes one action in exported rule data.
type ExportedAction struct {
	Name    string     `json:"name"`
	Label   string     `json:"label"`
	Params  []ParamDef `json:"params"`
	Tooltip string     `json:"tooltip"`
}

// ExportedOperator describes one operator of a value kind. InputType is
// FieldNoInput for operators that take no comparison value.
type ExportedOperator struct {
	Name      string    `json:"name"`
	Label     string    `json:"label"`
	InputType FieldType `json:"input_type"`
}

// RuleData is the full schema document.
type RuleData struct {
	Variables             []ExportedVariable            `json:"variables"`
	Actions               []ExportedAction              `json:"actions"`
	VariableTypeOperators map[string][]ExportedOperator `json:"variable_type_operators"`
}

// ExportRuleData exports all information about the given registries and the
// static operator tables. Either registry may be nil, in which case its
// section is null; the operator tables are always present.
func ExportRuleData(variables *Variables, actions *Actions) RuleData {
	data := RuleData{
		VariableTypeOperators: exportOperators(),
	}
	if variables != nil {
		data.Variables = exportVariables(variables)
	}
	if actions != nil {
		data.Actions = exportActions(actions)
	}
	return data
}

// exportVariables lists registered variables sorted by name.
func exportVariables(vs *Variables) []ExportedVariable {
	exported := make([]ExportedVariable, 0, len(vs.byName))
	for _, v := range vs.byName {
		options := v.Options
		if options == nil {
			options = []string{}
		}
		exported = append(exported, ExportedVariable{
			Name:      v.Name,
			Label:     v.Label,
			FieldType: v.Kind.String(),
			Options:   options,
			Params:    exportParams(v.Params),
			Tooltip:   v.Tooltip,
		})
	}
	sort.Slice(exported, func(i, j int) bool { return exported[i].Name < exported[j].Name })
	return exported
}

// exportActions lists registered actions sorted by name.
func exportActions(as *Actions) []ExportedAction {
	exported := make([]ExportedAction, 0, len(as.byName))
	for _, a := range as.byName {
		exported = append(exported, ExportedAction{
			Name:    a.Name,
			Label:   a.Label,
			Params:  exportParams(a.Params),
			Tooltip: a.Tooltip,
		})
	}
	sort.Slice(exported, func(i, j int) bool { return exported[i].Name < exported[j].Name })
	return exported
}

func exportParams(params []ParamDef) []ParamDef {
	if params == nil {
		return []ParamDef{}
	}
	return params
}

// exportOperators flattens the static operator tables, preserving each
// kind's declaration order and labeling operators from their names.
func exportOperators() map[string][]ExportedOperator {
	operators := make(map[string][]ExportedOperator, len(operatorsByKind))
	for kind, specs := range operatorsByKind {
		exported := make([]ExportedOperator, len(specs))
		for i, spec := range specs {
			exported[i] = ExportedOperator{
				Name:      spec.name,
				Label:     prettyLabel(spec.name),
				InputType: spec.inputType,
			}
		}
		operators[kind.String()] = exported
	}
	return operators
}
