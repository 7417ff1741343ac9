package mock

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/thrasher-corp/fxdx/encoding/json"
	"github.com/thrasher-corp/fxdx/log"
)

var (
	errNoFilePath     = errors.New("no path to mock file supplied")
	errNoRoutes       = errors.New("mock file contains no routes")
	errNoMatchingMock = errors.New("no matching mock response")
)

// VCRMock defines the main mock JSON file and attributes
type VCRMock struct {
	Routes map[string]map[string][]HTTPResponse `json:"routes"`
}

// HTTPResponse defines expected response from the end point including request
// data for pathing on the VCR server
type HTTPResponse struct {
	Data        json.RawMessage `json:"data"`
	QueryString string          `json:"queryString"`
	BodyParams  string          `json:"bodyParams"`
}

// NewVCRServer starts a new VCR server for replaying HTTP requests for testing
// purposes and returns the server connection details and a client to use
func NewVCRServer(path string) (string, *http.Client, error) {
	if path == "" {
		return "", nil, errNoFilePath
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}

	var m VCRMock
	if err = json.Unmarshal(contents, &m); err != nil {
		return "", nil, err
	}
	if len(m.Routes) == 0 {
		return "", nil, fmt.Errorf("%w: %s", errNoRoutes, path)
	}

	router := mux.NewRouter()
	for routePath, methods := range m.Routes {
		for method, responses := range methods {
			router.HandleFunc(routePath, respondFrom(responses)).Methods(method)
		}
	}

	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		return "", nil, err
	}

	server := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf(log.Global, "mock server: %v", err)
		}
	}()

	return "http://" + listener.Addr().String(), new(http.Client), nil
}

func respondFrom(responses []HTTPResponse) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp, err := matchResponse(responses, r.URL.Query(), body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(resp.Data); err != nil {
			log.Errorf(log.Global, "mock server write: %v", err)
		}
	}
}

func matchResponse(responses []HTTPResponse, query url.Values, body []byte) (*HTTPResponse, error) {
	bodyVals, err := DeriveURLValsFromJSON(body)
	if err != nil {
		return nil, err
	}
	for i := range responses {
		wantQuery, err := url.ParseQuery(responses[i].QueryString)
		if err != nil {
			return nil, err
		}
		wantBody, err := url.ParseQuery(responses[i].BodyParams)
		if err != nil {
			return nil, err
		}
		if MatchURLVals(wantQuery, query) && MatchURLVals(wantBody, bodyVals) {
			return &responses[i], nil
		}
	}
	return nil, errNoMatchingMock
}
