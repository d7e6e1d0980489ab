package poker

import "encoding/json"

type moveTag struct {
	Type string `json:"type"`
}

type chooseVariantMove struct {
	Type    string `json:"type"`
	Variant string `json:"variant"`
}

type chooseWildsMove struct {
	Type         string   `json:"type"`
	Wilds        []string `json:"wilds"`
	LastCardDown *bool    `json:"lastCardDown,omitempty"`
}

type buyInMove struct {
	Type string `json:"type"`
}

type raiseMove struct {
	Type   string `json:"type"`
	Amount int    `json:"amount"`
}

type discardMove struct {
	Type    string `json:"type"`
	Indices []int  `json:"indices"`
}

func parseMove(raw json.RawMessage) (string, json.RawMessage, error) {
	var tag moveTag
	if err := json.Unmarshal(raw, &tag); err != nil {
		return "", nil, err
	}
	return tag.Type, raw, nil
}
