package parse

import (
	"encoding/json"
	"errors"
)

// ErrMissingResults indicates a "search"/"info" AUR RPC response body had
// no top-level "results" key at all, as opposed to an empty or null one.
var ErrMissingResults = errors.New(`aur rpc response missing "results" field`)

// AurPackage mirrors a single result record from the AUR RPC v5 "info"
// and "search" endpoints. Field names and JSON tags follow the AUR RPC
// documentation.
type AurPackage struct {
	ID             int      `json:"ID"`
	Name           string   `json:"Name"`
	PackageBase    string   `json:"PackageBase"`
	PackageBaseID  int      `json:"PackageBaseID"`
	Version        string   `json:"Version"`
	Description    string   `json:"Description"`
	URL             string   `json:"URL"`
	URLPath        string   `json:"URLPath"`
	Maintainer     string   `json:"Maintainer"`
	NumVotes       int      `json:"NumVotes"`
	Popularity     float64  `json:"Popularity"`
	OutOfDate      *int64   `json:"OutOfDate"`
	FirstSubmitted int64    `json:"FirstSubmitted"`
	LastModified   int64    `json:"LastModified"`
	License        []string `json:"License"`
	Depends        []string `json:"Depends"`
	MakeDepends    []string `json:"MakeDepends"`
	CheckDepends   []string `json:"CheckDepends"`
	OptDepends     []string `json:"OptDepends"`
	Conflicts      []string `json:"Conflicts"`
	Provides       []string `json:"Provides"`
	Replaces       []string `json:"Replaces"`
	Groups         []string `json:"Groups"`
	Keywords       []string `json:"Keywords"`
}

// AurRPCResponse is the top-level envelope every AUR RPC v5 endpoint
// returns.
type AurRPCResponse struct {
	Version     int          `json:"version"`
	Type        string       `json:"type"`
	ResultCount int          `json:"resultcount"`
	Results     []AurPackage `json:"results"`
	Error       string       `json:"error"`
}

// ParseAurRPCResponse unmarshals a raw AUR RPC v5 JSON body. A "search" or
// "info" response with no "results" key at all (distinct from an explicit
// empty array or null) is treated as malformed and reported via
// ErrMissingResults, since the RPC always includes the key on success.
func ParseAurRPCResponse(body []byte) (AurRPCResponse, error) {
	var presence map[string]json.RawMessage
	if err := json.Unmarshal(body, &presence); err != nil {
		return AurRPCResponse{}, err
	}

	var resp AurRPCResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return AurRPCResponse{}, err
	}

	if resp.Type != "error" {
		if _, ok := presence["results"]; !ok {
			return AurRPCResponse{}, ErrMissingResults
		}
	}
	return resp, nil
}

// MarshalAurRPCResponse serializes resp back to JSON, used to round-trip
// a parsed response through the string-valued cache tiers.
func MarshalAurRPCResponse(resp AurRPCResponse) (string, error) {
	body, err := json.Marshal(resp)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// ParseAurSuggestResponse unmarshals the flat string-array body returned
// by the AUR RPC v5 "suggest"/"suggest-pkgbase" endpoints.
func ParseAurSuggestResponse(body []byte) ([]string, error) {
	var names []string
	if err := json.Unmarshal(body, &names); err != nil {
		return nil, err
	}
	return names, nil
}
