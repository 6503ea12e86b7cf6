package utils

import "github.com/goccy/go-json"

func StructToBytes(s interface{}) ([]byte, error) {
	return json.Marshal(s)
}

func BytesToStruct(data []byte, s interface{}) error {
	return json.Unmarshal(data, s)
}

// StructToIndentedString renders s as indented JSON for human output.
func StructToIndentedString(s interface{}) (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
