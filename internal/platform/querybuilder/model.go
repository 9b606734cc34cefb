package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModel builds an insert from the db-tagged fields of model.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	return InsertModels(table, []any{model}, suffix)
}

// InsertModels builds one multi-row insert. All models must share a type.
func InsertModels[T any](table string, models []T, suffix string) (string, []any, error) {
	if len(models) == 0 {
		return "", nil, fmt.Errorf("insert models are required")
	}

	ins := InsertInto(table).Suffix(suffix)
	var header []string
	for idx, m := range models {
		cols, vals, err := dbColumns(m)
		if err != nil {
			return "", nil, fmt.Errorf("model %d: %w", idx, err)
		}
		if header == nil {
			header = cols
			ins.Columns(cols...)
		} else if strings.Join(cols, ",") != strings.Join(header, ",") {
			return "", nil, fmt.Errorf("model %d has different columns", idx)
		}
		ins.Values(vals...)
	}
	return ins.ToSQL()
}

// Columns lists the db tags of a model type, for SELECT lists.
func Columns(model any) []string {
	cols, _, err := dbColumns(model)
	if err != nil {
		return nil
	}
	return cols
}

func dbColumns(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer || value.Kind() == reflect.Interface {
		if value.IsNil() {
			return nil, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be struct")
	}

	typ := value.Type()
	cols := make([]string, 0, typ.NumField())
	vals := make([]any, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		col := strings.TrimSpace(strings.Split(field.Tag.Get("db"), ",")[0])
		if col == "" || col == "-" {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, value.Field(i).Interface())
	}

	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("model has no db columns")
	}
	return cols, vals, nil
}
