package main

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/iov-one/raise"
	"github.com/iov-one/raise/crypto"
	"github.com/iov-one/raise/errors"
	"github.com/iov-one/raise/x/authpay"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// server is the HTTP face of the offering engine. Addresses, nonces and
// signatures travel hex encoded inside JSON bodies.
type server struct {
	svc    *services
	logger zerolog.Logger
}

func newHandler(svc *services, logger zerolog.Logger) http.Handler {
	s := &server{svc: svc, logger: logger}

	router := httprouter.New()
	router.GET("/v1/health", s.health)
	router.GET("/v1/offering", s.offering)
	router.GET("/v1/members/:address", s.member)
	router.POST("/v1/payments", s.payment)
	router.POST("/v1/authorizations/cancel", s.cancelAuthorization)
	router.POST("/v1/refunds", s.refund)
	router.POST("/v1/raise/cancel", s.cancelRaise)
	router.POST("/v1/raise/withdraw", s.withdraw)
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	var h http.Handler = router
	h = hlog.AccessHandler(func(r *http.Request, status, size int, _ time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Msg("request")
	})(h)
	h = hlog.NewHandler(logger)(h)
	return cors.Default().Handler(h)
}

func (s *server) health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) offering(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	off, err := s.svc.engine.Offering()
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]interface{}{
		"manager":         off.Manager,
		"value_ticker":    off.ValueTicker,
		"share_ticker":    off.ShareTicker,
		"total_supply":    off.TotalSupply,
		"minimal_percent": off.MinimalPercent,
		"unit_price":      off.UnitPrice,
		"sold_units":      off.SoldUnits,
		"state":           off.State.String(),
		"escrow":          s.svc.engine.Escrow(),
	})
}

func (s *server) member(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	addr, err := raise.ParseAddress(params.ByName("address"))
	if err != nil {
		s.fail(w, err)
		return
	}
	var isMember bool
	err = s.svc.engine.View(func(db raise.ReadOnlyKVStore) error {
		var err error
		isMember, err = s.svc.members.IsMember(db, addr)
		return err
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]interface{}{
		"address": addr,
		"member":  isMember,
	})
}

type paymentRequest struct {
	Payer       string         `json:"payer"`
	Value       uint64         `json:"value"`
	ValidAfter  raise.UnixTime `json:"valid_after"`
	ValidBefore raise.UnixTime `json:"valid_before"`
	Nonce       string         `json:"nonce"`
	Signature   string         `json:"signature"`
	Beneficiary string         `json:"beneficiary"`
}

func (s *server) payment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req paymentRequest
	if !s.decode(w, r, &req) {
		return
	}
	payer, err := raise.ParseAddress(req.Payer)
	if err != nil {
		s.fail(w, errors.Wrap(err, "payer"))
		return
	}
	beneficiary, err := raise.ParseAddress(req.Beneficiary)
	if err != nil {
		s.fail(w, errors.Wrap(err, "beneficiary"))
		return
	}
	nonce, err := hex.DecodeString(req.Nonce)
	if err != nil {
		s.fail(w, errors.Wrapf(errors.ErrInput, "nonce: %s", err))
		return
	}
	sig, err := hex.DecodeString(req.Signature)
	if err != nil {
		s.fail(w, errors.Wrapf(errors.ErrInput, "signature: %s", err))
		return
	}
	a := &authpay.Authorization{
		Payer:       payer,
		Payee:       s.svc.engine.Escrow(),
		Value:       req.Value,
		ValidAfter:  req.ValidAfter,
		ValidBefore: req.ValidBefore,
		Nonce:       nonce,
	}
	units, err := s.svc.engine.AddForPayment(a, crypto.Signature(sig), beneficiary)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respond(w, http.StatusCreated, map[string]interface{}{"units": units})
}

type cancelAuthorizationRequest struct {
	Payer     string `json:"payer"`
	Nonce     string `json:"nonce"`
	Signature string `json:"signature"`
}

func (s *server) cancelAuthorization(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req cancelAuthorizationRequest
	if !s.decode(w, r, &req) {
		return
	}
	payer, err := raise.ParseAddress(req.Payer)
	if err != nil {
		s.fail(w, errors.Wrap(err, "payer"))
		return
	}
	nonce, err := hex.DecodeString(req.Nonce)
	if err != nil {
		s.fail(w, errors.Wrapf(errors.ErrInput, "nonce: %s", err))
		return
	}
	sig, err := hex.DecodeString(req.Signature)
	if err != nil {
		s.fail(w, errors.Wrapf(errors.ErrInput, "signature: %s", err))
		return
	}
	if err := s.svc.engine.CancelAuthorization(payer, nonce, crypto.Signature(sig)); err != nil {
		s.fail(w, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"status": "canceled"})
}

type callerRequest struct {
	Caller string `json:"caller"`
}

func (s *server) caller(w http.ResponseWriter, r *http.Request) (raise.Address, bool) {
	var req callerRequest
	if !s.decode(w, r, &req) {
		return nil, false
	}
	addr, err := raise.ParseAddress(req.Caller)
	if err != nil {
		s.fail(w, errors.Wrap(err, "caller"))
		return nil, false
	}
	return addr, true
}

func (s *server) refund(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	value, err := s.svc.engine.WithdrawPayment(caller)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]interface{}{"value": value})
}

func (s *server) cancelRaise(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	if err := s.svc.engine.CancelRaise(caller); err != nil {
		s.fail(w, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"status": "canceled"})
}

func (s *server) withdraw(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	value, err := s.svc.engine.WithdrawForDuty(caller)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]interface{}{"value": value})
}

func (s *server) decode(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		s.fail(w, errors.Wrapf(errors.ErrInput, "invalid request body: %s", err))
		return false
	}
	return true
}

func (s *server) respond(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error().Err(err).Msg("cannot write response")
	}
}

// fail translates an engine error into an HTTP error response. The
// registered error code travels with the message so that clients can
// distinguish failure causes programmatically.
func (s *server) fail(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.ErrNotFound.Is(err):
		status = http.StatusNotFound
	case errors.ErrUnauthorized.Is(err):
		status = http.StatusForbidden
	case errors.ErrDatabase.Is(err):
		status = http.StatusInternalServerError
	}
	s.respond(w, status, map[string]interface{}{
		"error": err.Error(),
		"code":  errors.Code(err),
	})
}
