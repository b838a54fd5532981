package structs

type ActivityLogJsonModel struct {
	Type      string         `json:"type"`
	TaskID    uint           `json:"task_id"`
	Operator  string         `json:"operator,omitempty"`
	Result    string         `json:"result"`
	Statistic StatisticModel `json:"statistic"`
	Message   string         `json:"message"`
}

type StatisticModel struct {
	Candidates int            `json:"candidates"`
	Skipped    int            `json:"skipped"`
	Committed  int            `json:"committed"`
	Leaves     map[string]int `json:"leaves,omitempty"`
}
