package main

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"text/template"
)

const defaultPrecision = 2

type currency struct {
	Name      string
	Code      string
	Precision int
}

type table struct {
	Default    int
	Currencies []currency
}

func main() {
	// Open the input file and read its contents
	data, err := readCsvFile(filepath.Join("scripts", "precision", "precision_data.csv"))
	if err != nil {
		panic(fmt.Errorf("error reading CSV file: %v", err))
	}

	// Convert the CSV records to a precision table
	currs, err := convertDataToCurrencies(data)
	if err != nil {
		panic(fmt.Errorf("error converting CSV records: %v", err))
	}

	// Generate Go code from the table using a template
	code, err := generateGoCode(filepath.Join("scripts", "precision", "precision_data.tmpl"), table{Default: defaultPrecision, Currencies: currs})
	if err != nil {
		panic(fmt.Errorf("error generating Go code: %v", err))
	}

	// Write the generated Go code to a file
	err = writeToFile("precision_data.go", code)
	if err != nil {
		panic(fmt.Errorf("error writing to file: %v", err))
	}
}

func readCsvFile(filename string) ([][]string, error) {
	in, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer func() { _ = in.Close() }()

	reader := csv.NewReader(in)
	_, err = reader.Read() // header
	if err != nil {
		return nil, err
	}
	return reader.ReadAll()
}

func convertDataToCurrencies(data [][]string) ([]currency, error) {
	sort.Slice(data, func(i, j int) bool {
		return data[i][1] < data[j][1]
	})

	currs := []currency{}
	seen := map[string]bool{}
	for _, rec := range data {
		p, err := strconv.Atoi(rec[2])
		if err != nil {
			return nil, fmt.Errorf("currency %v: %w", rec[1], err)
		}
		if p == defaultPrecision {
			continue
		}
		if seen[rec[1]] {
			return nil, fmt.Errorf("currency %v is listed twice", rec[1])
		}
		seen[rec[1]] = true
		currs = append(currs, currency{
			Name:      rec[0],
			Code:      rec[1],
			Precision: p,
		})
	}
	return currs, nil
}

func generateGoCode(filename string, t table) ([]byte, error) {
	tmpl, err := template.New(filepath.Base(filename)).ParseFiles(filename)
	if err != nil {
		return nil, err
	}

	var output bytes.Buffer
	err = tmpl.Execute(&output, t)
	if err != nil {
		return nil, err
	}

	// Format the output as Go code
	return format.Source(output.Bytes())
}

func writeToFile(filename string, content []byte) error {
	out, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()
	writer := bufio.NewWriter(out)
	_, err = writer.Write(content)
	if err != nil {
		return err
	}
	return writer.Flush()
}
