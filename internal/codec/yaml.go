package codec

import (
	"errors"
	"fmt"
	"io"

	"travelrec/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export of records
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// yamlFile represents the YAML structure for a record list
type yamlFile struct {
	Records []yamlRecord `yaml:"records"`
}

// yamlRecord keeps amounts and dates as strings so they round-trip exactly
type yamlRecord struct {
	RefNumber      string `yaml:"ref_number"`
	Title          string `yaml:"title_en,omitempty"`
	Purpose        string `yaml:"purpose_en,omitempty"`
	StartDate      string `yaml:"start_date,omitempty"`
	EndDate        string `yaml:"end_date,omitempty"`
	Airfare        string `yaml:"airfare,omitempty"`
	OtherTransport string `yaml:"other_transport,omitempty"`
	Lodging        string `yaml:"lodging,omitempty"`
	Meals          string `yaml:"meals,omitempty"`
	OtherExpenses  string `yaml:"other_expenses,omitempty"`
	Total          string `yaml:"total,omitempty"`
}

// Parse imports records from YAML
func (c *YAMLCodec) Parse(r io.Reader, limit int) ([]domain.Record, error) {
	var yf yamlFile
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&yf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: yaml has no content", domain.ErrEmptyInput)
		}
		return nil, fmt.Errorf("%w: failed to parse YAML: %v", domain.ErrPersistence, err)
	}
	if len(yf.Records) == 0 {
		return nil, fmt.Errorf("%w: yaml has no records", domain.ErrEmptyInput)
	}

	if limit > 0 && len(yf.Records) > limit {
		yf.Records = yf.Records[:limit]
	}

	records := make([]domain.Record, 0, len(yf.Records))
	for i, yr := range yf.Records {
		// Same cell rules as CSV
		record, err := csvRow(yr).toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", domain.ErrPersistence, i+1, err)
		}
		records = append(records, record)
	}

	return records, nil
}

// Export exports records to YAML
func (c *YAMLCodec) Export(records []domain.Record, w io.Writer) error {
	yf := yamlFile{
		Records: make([]yamlRecord, 0, len(records)),
	}
	for _, r := range records {
		yf.Records = append(yf.Records, yamlRecord(fromDomain(r)))
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&yf); err != nil {
		return fmt.Errorf("%w: failed to encode YAML: %v", domain.ErrPersistence, err)
	}

	return nil
}
