package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewValidatorDomainTags(t *testing.T) {
	v := NewValidator()
	type payload struct {
		Shift  string   `validate:"shift"`
		Days   []string `validate:"min=1,dive,weekday"`
		Status string   `validate:"group_status"`
		Start  string   `validate:"hhmm"`
		Date   string   `validate:"isodate"`
	}

	valid := payload{Shift: "Manhã", Days: []string{"Segunda", "quarta-feira"}, Status: "Em Andamento", Start: "07:30", Date: "2024-03-04"}
	assert.NoError(t, v.Struct(valid))

	cases := map[string]payload{
		"shift":  {Shift: "Madrugada", Days: valid.Days, Status: valid.Status, Start: valid.Start, Date: valid.Date},
		"day":    {Shift: valid.Shift, Days: []string{"Feriado"}, Status: valid.Status, Start: valid.Start, Date: valid.Date},
		"status": {Shift: valid.Shift, Days: valid.Days, Status: "Ativa", Start: valid.Start, Date: valid.Date},
		"hhmm":   {Shift: valid.Shift, Days: valid.Days, Status: valid.Status, Start: "7:30", Date: valid.Date},
		"date":   {Shift: valid.Shift, Days: valid.Days, Status: valid.Status, Start: valid.Start, Date: "04/03/2024"},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, v.Struct(p))
		})
	}
}
