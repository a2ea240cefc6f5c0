package api

import (
	"github.com/adrianliechti/payroll/pkg/record"
)

type ModelList struct {
	Models []Model `json:"data"`
}

type Model struct {
	ID string `json:"id"`
}

type Extraction struct {
	ID    string `json:"id"`
	Model string `json:"model"`

	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`

	Errors []DocumentError `json:"errors"`
}

type Row struct {
	Name string `json:"name"`

	Values map[string]record.Value `json:"values"`
}

type DocumentError struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Error string `json:"error"`
}
