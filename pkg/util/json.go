package util

import (
	"encoding/json"
	"fmt"
)

// PrintPrettyJSON prints v as indented JSON on stdout.
// Nil slices are printed as [] rather than null.
func PrintPrettyJSON(v any) error {
	if v == nil {
		fmt.Println("{}")
		return nil
	}

	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if string(out) == "null" {
		fmt.Println("[]")
		return nil
	}
	fmt.Println(string(out))
	return nil
}
