// Package service exposes the chain over a plain HTTP API: submitting graphs
// as N-Triples, reading blocks, validating the chain, and hashing graphs
// without recording them.
package service

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"strconv"
	"sync"

	"github.com/provchain/graphchain/src/canonical"
	"github.com/provchain/graphchain/src/chain"
	cm "github.com/provchain/graphchain/src/common"
	"github.com/provchain/graphchain/src/rdf"
	"github.com/sirupsen/logrus"
)

// Service ...
type Service struct {
	sync.Mutex

	bindAddress string
	chain       *chain.Chain
	canon       *canonical.Canonicalizer
	mux         *http.ServeMux
	logger      *logrus.Entry
}

// NewService ...
func NewService(bindAddress string, c *chain.Chain, canon *canonical.Canonicalizer, logger *logrus.Entry) *Service {
	service := Service{
		bindAddress: bindAddress,
		chain:       c,
		canon:       canon,
		mux:         http.NewServeMux(),
		logger:      logger,
	}

	service.registerHandlers()

	return &service
}

// registerHandlers registers the API handlers with the service's own
// ServeMux, so multiple nodes can run in one process without colliding on
// the DefaultServeMux.
func (s *Service) registerHandlers() {
	s.logger.Debug("Registering API handlers")
	s.mux.HandleFunc("/stats", s.makeHandler(s.GetStats))
	s.mux.HandleFunc("/block/", s.makeHandler(s.GetBlock))
	s.mux.HandleFunc("/blocks", s.makeHandler(s.Blocks))
	s.mux.HandleFunc("/validate", s.makeHandler(s.Validate))
	s.mux.HandleFunc("/hash", s.makeHandler(s.Hash))
}

func (s *Service) makeHandler(fn func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Lock()
		defer s.Unlock()

		// enable CORS
		w.Header().Set("Access-Control-Allow-Origin", "*")

		fn(w, r)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Serve calls ListenAndServe. This is a blocking call.
func (s *Service) Serve() {
	s.logger.WithField("bind_address", s.bindAddress).Debug("Serving API")

	err := http.ListenAndServe(s.bindAddress, s.mux)
	if err != nil {
		s.logger.Error(err)
	}
}

// Stats ...
type Stats struct {
	Blocks        int    `json:"blocks"`
	LastIndex     uint64 `json:"last_index"`
	LastHash      string `json:"last_hash"`
	LastAlgorithm string `json:"last_algorithm"`
}

// GetStats ...
func (s *Service) GetStats(w http.ResponseWriter, r *http.Request) {
	last := s.chain.LastBlock()

	stats := Stats{
		Blocks:        s.chain.Len(),
		LastIndex:     last.Index,
		LastHash:      last.Hash,
		LastAlgorithm: last.Algorithm.String(),
	}

	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(stats)
}

// GetBlock ...
func (s *Service) GetBlock(w http.ResponseWriter, r *http.Request) {
	param := r.URL.Path[len("/block/"):]

	blockIndex, err := strconv.ParseUint(param, 10, 64)

	if err != nil {
		s.logger.WithError(err).Errorf("Parsing block_index parameter %s", param)

		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	block, err := s.chain.GetBlock(blockIndex)

	if err != nil {
		s.logger.WithError(err).Errorf("Retrieving block %d", blockIndex)

		status := http.StatusInternalServerError
		if cm.IsStore(err, cm.KeyNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(block)
}

// Blocks returns the whole chain on GET, and appends a new block from an
// N-Triples request body on POST.
func (s *Service) Blocks(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		s.addBlock(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(s.chain.Blocks())
}

func (s *Service) addBlock(w http.ResponseWriter, r *http.Request) {
	triples, ok := s.readTriples(w, r)
	if !ok {
		return
	}

	block, err := s.chain.AddBlock(triples)
	if err != nil {
		s.logger.WithError(err).Error("Adding block")

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	json.NewEncoder(w).Encode(block)
}

// validationFinding is the wire form of a chain.Finding.
type validationFinding struct {
	Index uint64 `json:"index"`
	Error string `json:"error"`
}

type validationResult struct {
	Valid    bool                `json:"valid"`
	Checked  int                 `json:"checked"`
	Findings []validationFinding `json:"findings,omitempty"`
}

// Validate walks the chain. By default the walk stops at the first problem;
// with ?all=true every block is checked and all findings are returned.
func (s *Service) Validate(w http.ResponseWriter, r *http.Request) {
	var report *chain.ValidationReport
	if r.URL.Query().Get("all") == "true" {
		report = s.chain.ValidateAll()
	} else {
		report = s.chain.Validate()
	}

	res := validationResult{
		Valid:   report.Valid,
		Checked: report.Checked,
	}
	for _, f := range report.Findings {
		res.Findings = append(res.Findings, validationFinding{Index: f.Index, Error: f.Err.Error()})
	}

	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(res)
}

type hashResult struct {
	CanonicalHash string `json:"canonical_hash"`
	Algorithm     string `json:"algorithm"`
	Complexity    string `json:"complexity"`
	Triples       int    `json:"triples"`
}

// Hash canonicalizes an N-Triples request body without recording a block.
func (s *Service) Hash(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "only POST is supported", http.StatusMethodNotAllowed)
		return
	}

	triples, ok := s.readTriples(w, r)
	if !ok {
		return
	}

	graph := rdf.NewGraph("", triples)

	hash, alg, err := s.canon.Canonicalize(graph)
	if err != nil {
		s.logger.WithError(err).Error("Canonicalizing graph")

		http.Error(w, err.Error(), http.StatusUnprocessableEntity)

		return
	}

	res := hashResult{
		CanonicalHash: cm.EncodeToString(hash),
		Algorithm:     alg.String(),
		Complexity:    canonical.Classify(graph).String(),
		Triples:       graph.Len(),
	}

	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(res)
}

func (s *Service) readTriples(w http.ResponseWriter, r *http.Request) ([]rdf.Triple, bool) {
	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	triples, err := rdf.Parse(string(body))
	if err != nil {
		s.logger.WithError(err).Error("Parsing N-Triples body")

		http.Error(w, err.Error(), http.StatusBadRequest)

		return nil, false
	}

	return triples, true
}
