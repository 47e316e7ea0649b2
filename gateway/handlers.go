package gateway

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-chi/chi/v5"
)

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, requestLimit))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func parseAddress(raw string) ([20]byte, error) {
	if !common.IsHexAddress(raw) {
		return [20]byte{}, fmt.Errorf("invalid address %q", raw)
	}
	return common.HexToAddress(raw), nil
}

func parseHash(raw string) ([32]byte, error) {
	decoded, err := hexutil.Decode(strings.TrimSpace(raw))
	if err != nil {
		return [32]byte{}, fmt.Errorf("invalid hash %q: %w", raw, err)
	}
	if len(decoded) != 32 {
		return [32]byte{}, fmt.Errorf("invalid hash %q: want 32 bytes", raw)
	}
	var out [32]byte
	copy(out[:], decoded)
	return out, nil
}

func parseProof(raw []string) ([][32]byte, error) {
	proof := make([][32]byte, len(raw))
	for i, node := range raw {
		parsed, err := parseHash(node)
		if err != nil {
			return nil, err
		}
		proof[i] = parsed
	}
	return proof, nil
}

func parseBig(raw string) (*big.Int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return big.NewInt(0), nil
	}
	value, ok := new(big.Int).SetString(trimmed, 10)
	if !ok || value.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount %q", raw)
	}
	return value, nil
}

type claimRequest struct {
	Claimant string   `json:"claimant"`
	Amount   uint64   `json:"amount"`
	Proof    []string `json:"proof"`
}

type mintResponse struct {
	FirstID uint64 `json:"firstId"`
	Amount  uint64 `json:"amount"`
}

func (s *Server) handlePresaleClaim(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	claimant, err := parseAddress(req.Claimant)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	proof, err := parseProof(req.Proof)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	first, err := s.engine.ClaimPresale(claimant, req.Amount, proof)
	if err != nil {
		s.metrics.ObserveMintFailure("presale")
		s.writeEngineError(w, err)
		return
	}
	s.metrics.ObserveMint("presale", req.Amount)
	s.metrics.SetSupply(s.engine.TotalIssued())
	s.writeJSON(w, http.StatusOK, mintResponse{FirstID: first, Amount: req.Amount})
}

type publicMintRequest struct {
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
	Payment   string `json:"payment"`
}

func (s *Server) handleMintPublic(w http.ResponseWriter, r *http.Request) {
	var req publicMintRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	recipient, err := parseAddress(req.Recipient)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	payment, err := parseBig(req.Payment)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	first, err := s.engine.MintPublic(recipient, req.Amount, payment)
	if err != nil {
		s.metrics.ObserveMintFailure("public")
		s.writeEngineError(w, err)
		return
	}
	s.metrics.ObserveMint("public", req.Amount)
	s.metrics.SetSupply(s.engine.TotalIssued())
	s.writeJSON(w, http.StatusOK, mintResponse{FirstID: first, Amount: req.Amount})
}

type reserveMintRequest struct {
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
}

func (s *Server) handleMintReserve(w http.ResponseWriter, r *http.Request) {
	var req reserveMintRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	recipient, err := parseAddress(req.Recipient)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	first, err := s.engine.MintReserve(recipient, req.Amount)
	if err != nil {
		s.metrics.ObserveMintFailure("reserve")
		s.writeEngineError(w, err)
		return
	}
	s.metrics.ObserveMint("reserve", req.Amount)
	s.metrics.SetSupply(s.engine.TotalIssued())
	s.metrics.SetReserve(s.engine.Sale().Reserve())
	s.writeJSON(w, http.StatusOK, mintResponse{FirstID: first, Amount: req.Amount})
}

type tokenURIResponse struct {
	TokenID uint64 `json:"tokenId"`
	URI     string `json:"uri"`
}

func (s *Server) handleTokenURI(w http.ResponseWriter, r *http.Request) {
	tokenID, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	uri, err := s.engine.TokenURI(tokenID)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tokenURIResponse{TokenID: tokenID, URI: uri})
}

type collectionResponse struct {
	TotalIssued  uint64 `json:"totalIssued"`
	Reserve      uint64 `json:"reserve"`
	PresaleOpen  bool   `json:"presaleOpen"`
	Revealed     bool   `json:"revealed"`
	Price        string `json:"price"`
	MintLimit    uint64 `json:"mintLimit"`
	PresaleCap   uint64 `json:"presaleCap"`
	MerkleRoot   string `json:"merkleRoot"`
	CustodyFunds string `json:"custodyFunds"`
}

func (s *Server) handleCollection(w http.ResponseWriter, _ *http.Request) {
	list := s.engine.Allowlist()
	ctrl := s.engine.Sale()
	root := list.Root()
	s.writeJSON(w, http.StatusOK, collectionResponse{
		TotalIssued:  s.engine.TotalIssued(),
		Reserve:      ctrl.Reserve(),
		PresaleOpen:  list.Open(),
		Revealed:     s.engine.Gate().Revealed(),
		Price:        ctrl.Price().String(),
		MintLimit:    ctrl.MintLimit(),
		PresaleCap:   list.AddressCap(),
		MerkleRoot:   hexutil.Encode(root[:]),
		CustodyFunds: ctrl.Funds().String(),
	})
}

type setPriceRequest struct {
	Price string `json:"price"`
}

func (s *Server) handleSetPrice(w http.ResponseWriter, r *http.Request) {
	var req setPriceRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	price, err := parseBig(req.Price)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	s.engine.Sale().SetPrice(price)
	s.writeJSON(w, http.StatusOK, nil)
}

type setMintLimitRequest struct {
	Limit uint64 `json:"limit"`
}

func (s *Server) handleSetMintLimit(w http.ResponseWriter, r *http.Request) {
	var req setMintLimitRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	s.engine.Sale().SetMintLimit(req.Limit)
	s.writeJSON(w, http.StatusOK, nil)
}

type setRootRequest struct {
	Root string `json:"root"`
}

func (s *Server) handleSetMerkleRoot(w http.ResponseWriter, r *http.Request) {
	var req setRootRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	root, err := parseHash(req.Root)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := s.engine.Allowlist().SetRoot(root); err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleEndPresale(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Allowlist().EndPresale(); err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	if s.manual == nil {
		s.writeError(w, http.StatusConflict, "timed_reveal", fmt.Errorf("collection reveals by timestamp"))
		return
	}
	if err := s.manual.Reveal(); err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nil)
}

type setRevealTimeRequest struct {
	RevealTime int64 `json:"revealTime"`
}

func (s *Server) handleSetRevealTime(w http.ResponseWriter, r *http.Request) {
	if s.timed == nil {
		s.writeError(w, http.StatusConflict, "manual_reveal", fmt.Errorf("collection reveals manually"))
		return
	}
	var req setRevealTimeRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := s.timed.SetRevealTime(req.RevealTime); err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nil)
}

type setPlaceholderRequest struct {
	URI string `json:"uri"`
}

func (s *Server) handleSetPlaceholder(w http.ResponseWriter, r *http.Request) {
	var req setPlaceholderRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := s.engine.Gate().SetPlaceholderURI(req.URI); err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nil)
}

type collectFundsRequest struct {
	To     string `json:"to"`
	Amount string `json:"amount"`
}

func (s *Server) handleCollectFunds(w http.ResponseWriter, r *http.Request) {
	var req collectFundsRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	to, err := parseAddress(req.To)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	amount, err := parseBig(req.Amount)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := s.engine.Sale().CollectFunds(to, amount); err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.metrics.ObserveFundsCollected()
	s.writeJSON(w, http.StatusOK, nil)
}
