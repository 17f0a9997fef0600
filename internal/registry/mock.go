package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/charapi/charapi/pkg/evaluate"
)

// Mock clients serve canned data for demos and offline development. The
// fixtures cover two well-known organizations; any other EIN is not found.

type mockOrg struct {
	org     evaluate.Organization
	filings []evaluate.Filing
	record  evaluate.DirectoryRecord
}

var mockOrgs = map[string]mockOrg{
	"530196605": {
		org: evaluate.Organization{EIN: "530196605", Name: "American National Red Cross"},
		filings: []evaluate.Filing{
			{
				TaxPeriod:        202306,
				TotalRevenue:     3_224_869_000,
				TotalExpenses:    3_063_698_768,
				TotalAssets:      3_485_000_000,
				TotalLiabilities: 2_345_000_000,
			},
			{
				TaxPeriod:     202206,
				TotalRevenue:  2_946_000_000,
				TotalExpenses: 2_881_000_000,
			},
		},
		record: evaluate.DirectoryRecord{
			EIN:           "530196605",
			Name:          "AMERICAN NATIONAL RED CROSS",
			Status:        1,
			Deductibility: 1,
			TaxPeriod:     202306,
			NTEECode:      "P12",
			Subsection:    3,
			Foundation:    15,
			FilingReq:     1,
			Ruling:        193805,
			State:         "DC",
		},
	},
	"131624147": {
		org: evaluate.Organization{EIN: "131624147", Name: "The Salvation Army"},
		filings: []evaluate.Filing{
			{
				TaxPeriod:        202209,
				TotalRevenue:     3_730_000_000,
				TotalExpenses:    3_586_000_000,
				TotalAssets:      12_100_000_000,
				TotalLiabilities: 1_900_000_000,
			},
		},
		record: evaluate.DirectoryRecord{
			EIN:           "131624147",
			Name:          "SALVATION ARMY",
			Status:        1,
			Deductibility: 1,
			TaxPeriod:     202209,
			NTEECode:      "P20",
			Subsection:    3,
			Foundation:    10,
			FilingReq:     1,
			Ruling:        195510,
			State:         "NY",
		},
	},
}

// MockFilingsClient serves canned organization and filing data.
type MockFilingsClient struct{}

// NewMockFilingsClient creates the fixture-backed filings client.
func NewMockFilingsClient() *MockFilingsClient { return &MockFilingsClient{} }

func (m *MockFilingsClient) GetOrganization(ctx context.Context, ein string) (*evaluate.Organization, error) {
	fixture, ok := mockOrgs[evaluate.NormalizeEIN(ein)]
	if !ok {
		return nil, fmt.Errorf("mock propublica: organization not found")
	}
	org := fixture.org
	return &org, nil
}

func (m *MockFilingsClient) GetAllFilings(ctx context.Context, ein string) ([]evaluate.Filing, error) {
	fixture, ok := mockOrgs[evaluate.NormalizeEIN(ein)]
	if !ok {
		return nil, fmt.Errorf("mock propublica: organization not found")
	}
	filings := make([]evaluate.Filing, len(fixture.filings))
	copy(filings, fixture.filings)
	return filings, nil
}

// SearchOrganizations matches fixture names case-insensitively.
func (m *MockFilingsClient) SearchOrganizations(ctx context.Context, query string) ([]evaluate.Organization, error) {
	var out []evaluate.Organization
	q := strings.ToLower(query)
	for _, fixture := range mockOrgs {
		if strings.Contains(strings.ToLower(fixture.org.Name), q) {
			out = append(out, fixture.org)
		}
	}
	return out, nil
}

// MockDirectoryClient serves canned classification records.
type MockDirectoryClient struct{}

// NewMockDirectoryClient creates the fixture-backed directory client.
func NewMockDirectoryClient() *MockDirectoryClient { return &MockDirectoryClient{} }

func (m *MockDirectoryClient) GetOrganization(ctx context.Context, ein string) (*evaluate.DirectoryRecord, error) {
	fixture, ok := mockOrgs[evaluate.NormalizeEIN(ein)]
	if !ok {
		return nil, fmt.Errorf("mock charityapi: organization not found")
	}
	rec := fixture.record
	return &rec, nil
}
