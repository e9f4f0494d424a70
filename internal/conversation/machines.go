// Package conversation manages multi-turn slot-filling flows. Each flow
// is a small state machine that collects required fields one question at
// a time, asks for confirmation, and hands off a ready-to-execute
// payload.
package conversation

// Flow names.
const (
	FlowAddTransaction    = "add_transaction"
	FlowEditTransaction   = "edit_transaction"
	FlowDeleteTransaction = "delete_transaction"
	FlowTransfer          = "transfer"
	FlowCreateGoal        = "create_goal"
)

// Shared terminal states. Every flow passes through CONFIRMING before
// reaching READY_TO_EXECUTE.
const (
	StateConfirming = "CONFIRMING"
	StateReady      = "READY_TO_EXECUTE"
)

// Machine describes one flow: the order questions are asked in and the
// fields that must be collected before confirmation.
type Machine struct {
	Initial  string
	States   []string
	Required []string
}

var machines = map[string]Machine{
	FlowAddTransaction: {
		Initial: "AWAITING_AMOUNT",
		States: []string{
			"AWAITING_AMOUNT",
			"AWAITING_CATEGORY",
			"AWAITING_ACCOUNT",
			StateConfirming,
			StateReady,
		},
		Required: []string{"amount", "type", "category", "account"},
	},
	FlowEditTransaction: {
		Initial: "AWAITING_FIELD",
		States: []string{
			"AWAITING_FIELD",
			"AWAITING_NEW_VALUE",
			StateConfirming,
			StateReady,
		},
		Required: []string{"field", "new_value"},
	},
	FlowDeleteTransaction: {
		Initial:  StateConfirming,
		States:   []string{StateConfirming, StateReady},
		Required: nil,
	},
	FlowTransfer: {
		Initial: "AWAITING_FROM_ACCOUNT",
		States: []string{
			"AWAITING_FROM_ACCOUNT",
			"AWAITING_TO_ACCOUNT",
			"AWAITING_AMOUNT",
			StateConfirming,
			StateReady,
		},
		Required: []string{"from_account", "to_account", "amount"},
	},
	FlowCreateGoal: {
		Initial: "AWAITING_GOAL_NAME",
		States: []string{
			"AWAITING_GOAL_NAME",
			"AWAITING_TARGET_AMOUNT",
			"AWAITING_DEADLINE",
			StateConfirming,
			StateReady,
		},
		Required: []string{"name", "target_amount", "deadline"},
	},
}

// stateFields maps each collecting state to the field it gathers.
var stateFields = map[string]map[string]string{
	FlowAddTransaction: {
		"AWAITING_AMOUNT":   "amount",
		"AWAITING_CATEGORY": "category",
		"AWAITING_ACCOUNT":  "account",
	},
	FlowEditTransaction: {
		"AWAITING_FIELD":     "field",
		"AWAITING_NEW_VALUE": "new_value",
	},
	FlowTransfer: {
		"AWAITING_FROM_ACCOUNT": "from_account",
		"AWAITING_TO_ACCOUNT":   "to_account",
		"AWAITING_AMOUNT":       "amount",
	},
	FlowCreateGoal: {
		"AWAITING_GOAL_NAME":     "name",
		"AWAITING_TARGET_AMOUNT": "target_amount",
		"AWAITING_DEADLINE":      "deadline",
	},
}

// FieldFor returns the field a flow collects in the given state.
func FieldFor(flow, state string) (string, bool) {
	field, ok := stateFields[flow][state]
	return field, ok
}

// MachineFor returns the machine for a flow name.
func MachineFor(flow string) (Machine, bool) {
	m, ok := machines[flow]
	return m, ok
}

// stateIndex returns the position of state in the machine, or -1.
func (m Machine) stateIndex(state string) int {
	for i, s := range m.States {
		if s == state {
			return i
		}
	}
	return -1
}

// complete reports whether every required field is present in data.
func (m Machine) complete(data map[string]any) bool {
	for _, field := range m.Required {
		if _, ok := data[field]; !ok {
			return false
		}
	}
	return true
}
