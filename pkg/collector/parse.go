package collector

import (
	"math"
	"strconv"
	"strings"

	"github.com/helmcode/questionnaire/pkg/model"
)

// Parse coerces one line of input into the answer shape q declares.
// Errors wrap model.ErrFormat or model.ErrRange and carry the message to show.
func Parse(q model.QuestionSpec, line string) (model.Answer, error) {
	line = strings.TrimSpace(line)

	switch q.Type {
	case model.SingleChoice:
		if line == "" && !q.Required {
			return model.Null(), nil
		}
		i, err := parseIndex(line, len(q.Options))
		if err != nil {
			return model.Answer{}, err
		}
		return model.Text(q.Options[i-1]), nil

	case model.MultiChoice:
		if line == "" {
			if q.Required {
				return model.Answer{}, model.RangeErrorf("Please select at least one option.")
			}
			return model.List(), nil
		}
		parts := strings.Split(line, ",")
		selected := make([]string, 0, len(parts))
		for _, p := range parts {
			i, err := parseIndex(strings.TrimSpace(p), len(q.Options))
			if err != nil {
				return model.Answer{}, err
			}
			selected = append(selected, q.Options[i-1])
		}
		return model.List(selected...), nil

	case model.FreeText:
		if line == "" && q.Required {
			return model.Answer{}, model.RangeErrorf("This field is required. Please provide a response.")
		}
		return model.Text(line), nil

	case model.Numeric:
		if line == "" && !q.Required {
			return model.Null(), nil
		}
		n, err := strconv.ParseFloat(line, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return model.Answer{}, model.FormatErrorf("Please enter a valid number.")
		}
		return model.Number(n), nil

	case model.Rating:
		if line == "" && !q.Required {
			return model.Null(), nil
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			return model.Answer{}, model.FormatErrorf("Please enter a valid number.")
		}
		if n < 1 || n > q.Scale {
			return model.Answer{}, model.RangeErrorf("Please enter a rating between 1 and %d.", q.Scale)
		}
		return model.Number(float64(n)), nil
	}

	return model.Answer{}, model.FormatErrorf("Unsupported question type: %s", q.Type)
}

func parseIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, model.FormatErrorf("Please enter a valid number.")
	}
	if i < 1 || i > n {
		return 0, model.RangeErrorf("Invalid choice %d. Please enter a number between 1 and %d.", i, n)
	}
	return i, nil
}
