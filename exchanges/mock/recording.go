package mock

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/thrasher-corp/fxdx/encoding/json"
)

var (
	errNilResponse    = errors.New("http response is nil")
	errInvalidPayload = errors.New("response payload is not valid JSON")
)

// HTTPRecord will record the request and response to a default JSON file for
// mocking purposes
func HTTPRecord(res *http.Response, service string, respContents []byte, directory string) error {
	if res == nil || res.Request == nil {
		return errNilResponse
	}
	if !json.Valid(respContents) {
		return errInvalidPayload
	}

	service = strings.ToLower(service)
	fileout := filepath.Join(directory, service, service+".json")

	m := VCRMock{Routes: make(map[string]map[string][]HTTPResponse)}
	contents, err := os.ReadFile(fileout)
	switch {
	case err == nil:
		if err = json.Unmarshal(contents, &m); err != nil {
			return err
		}
		if m.Routes == nil {
			m.Routes = make(map[string]map[string][]HTTPResponse)
		}
	case errors.Is(err, os.ErrNotExist):
		if err = os.MkdirAll(filepath.Dir(fileout), 0o770); err != nil {
			return err
		}
	default:
		return err
	}

	bodyParams, err := requestBodyParams(res.Request)
	if err != nil {
		return err
	}

	entry := HTTPResponse{
		Data:        json.RawMessage(respContents),
		QueryString: res.Request.URL.RawQuery,
		BodyParams:  bodyParams,
	}

	path := res.Request.URL.Path
	if m.Routes[path] == nil {
		m.Routes[path] = make(map[string][]HTTPResponse)
	}
	method := res.Request.Method
	existing := m.Routes[path][method]
	replaced := false
	for i := range existing {
		if existing[i].QueryString == entry.QueryString && existing[i].BodyParams == entry.BodyParams {
			existing[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		existing = append(existing, entry)
	}
	m.Routes[path][method] = existing

	payload, err := json.MarshalIndent(m, "", " ")
	if err != nil {
		return err
	}
	return os.WriteFile(fileout, payload, 0o600)
}

func requestBodyParams(req *http.Request) (string, error) {
	if req.GetBody == nil {
		return "", nil
	}
	rc, err := req.GetBody()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	body, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	vals, err := DeriveURLValsFromJSON(body)
	if err != nil {
		return "", fmt.Errorf("cannot derive body params: %w", err)
	}
	return vals.Encode(), nil
}
