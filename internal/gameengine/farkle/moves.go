package farkle

import "encoding/json"

type moveTag struct {
	Type string `json:"type"`
}

type keepMove struct {
	Type    string `json:"type"`
	Indices []int  `json:"indices"`
}

func parseMove(raw json.RawMessage) (string, []int, error) {
	var tag moveTag
	if err := json.Unmarshal(raw, &tag); err != nil {
		return "", nil, err
	}
	if tag.Type != "keep" && tag.Type != "keep-and-roll" && tag.Type != "keep-and-bank" {
		return tag.Type, nil, nil
	}
	var m keepMove
	if err := json.Unmarshal(raw, &m); err != nil {
		return "", nil, err
	}
	return tag.Type, m.Indices, nil
}
