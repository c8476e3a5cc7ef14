// Zaparoo Launcher
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Launcher.
//
// Zaparoo Launcher is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Launcher is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Launcher.  If not, see <http://www.gnu.org/licenses/>.

// Package api serves the launcher's JSON-RPC API, web UI and game content.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/methods"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models/requests"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/validation"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
)

var (
	JSONRPCErrorParseError = models.ErrorObject{
		Code:    -32700,
		Message: "Parse error",
	}
	JSONRPCErrorInvalidRequest = models.ErrorObject{
		Code:    -32600,
		Message: "Invalid Request",
	}
	JSONRPCErrorMethodNotFound = models.ErrorObject{
		Code:    -32601,
		Message: "Method not found",
	}
	JSONRPCErrorInvalidParams = models.ErrorObject{
		Code:    -32602,
		Message: "Invalid params",
	}
	JSONRPCErrorInternalError = models.ErrorObject{
		Code:    -32603,
		Message: "Internal error",
	}
)

const jsonRPCServerErrorCode = -32000

var ErrMethodExists = errors.New("method already registered")

type MethodFunc func(requests.RequestEnv) (any, error)

// MethodMap is the registry of JSON-RPC methods. Names are matched
// case-insensitively.
type MethodMap struct {
	methods map[string]MethodFunc
	mu      syncutil.RWMutex
}

func NewMethodMap() *MethodMap {
	return &MethodMap{methods: make(map[string]MethodFunc)}
}

// NewDefaultMethodMap returns a map with every launcher method registered.
func NewDefaultMethodMap() *MethodMap {
	m := NewMethodMap()
	defaults := map[string]MethodFunc{
		// games
		models.MethodGames:           methods.HandleGames,
		models.MethodFavoritesToggle: methods.HandleFavoritesToggle,
		models.MethodGamesImport:     methods.HandleImport,
		models.MethodGamesRemove:     methods.HandleRemove,
		// session
		models.MethodLaunch:        methods.HandleLaunch,
		models.MethodStop:          methods.HandleStop,
		models.MethodSessionStatus: methods.HandleSessionStatus,
		models.MethodHistory:       methods.HandleHistory,
		// updates
		models.MethodUpdateCheck:   methods.HandleUpdateCheck,
		models.MethodUpdateInstall: methods.HandleUpdateInstall,
		// utils
		models.MethodOpenExternal: methods.HandleOpenExternal,
		models.MethodVersion:      methods.HandleVersion,
	}
	for name, fn := range defaults {
		if err := m.AddMethod(name, fn); err != nil {
			log.Error().Err(err).Str("method", name).Msg("failed to register method")
		}
	}
	return m
}

func (m *MethodMap) AddMethod(name string, fn MethodFunc) error {
	key := strings.ToLower(name)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.methods[key]; ok {
		return fmt.Errorf("%w: %s", ErrMethodExists, name)
	}
	m.methods[key] = fn
	return nil
}

func (m *MethodMap) GetMethod(name string) (MethodFunc, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fn, ok := m.methods[strings.ToLower(name)]
	return fn, ok
}

// ListMethods returns the sorted registered method names.
func (m *MethodMap) ListMethods() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.methods))
	for name := range m.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// errorObject maps a handler error onto a JSON-RPC error.
func errorObject(err error) *models.ErrorObject {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return &models.ErrorObject{Code: JSONRPCErrorInvalidParams.Code, Message: verr.Error()}
	case errors.Is(err, validation.ErrMissingParams), errors.Is(err, validation.ErrInvalidParams):
		return &models.ErrorObject{Code: JSONRPCErrorInvalidParams.Code, Message: err.Error()}
	default:
		return &models.ErrorObject{Code: jsonRPCServerErrorCode, Message: err.Error()}
	}
}

func handleRequest(
	methodMap *MethodMap,
	env requests.RequestEnv, //nolint:gocritic // passed on by value to the handler
	req models.RequestObject, //nolint:gocritic // single use
) (any, *models.ErrorObject) {
	logSafeRequest(req)

	fn, ok := methodMap.GetMethod(req.Method)
	if !ok {
		log.Warn().Str("method", req.Method).Msg("unknown method")
		return nil, &JSONRPCErrorMethodNotFound
	}

	if req.ID != nil {
		env.ID = *req.ID
	}
	env.Params = req.Params

	resp, err := fn(env)
	if err != nil {
		log.Debug().Err(err).Str("method", req.Method).Msg("method returned an error")
		return nil, errorObject(err)
	}
	return resp, nil
}

// maxLoggedResult caps how much of a result is written to the debug log.
const maxLoggedResult = 512

func logSafeRequest(req models.RequestObject) { //nolint:gocritic // logging only
	log.Debug().
		Str("method", req.Method).
		Str("id", req.ID.String()).
		RawJSON("params", paramsOrNull(req.Params)).
		Msg("received request")
}

func paramsOrNull(p json.RawMessage) []byte {
	if len(p) == 0 || !json.Valid(p) {
		return []byte("null")
	}
	return p
}

func logSafeResponse(result any) {
	data, err := json.Marshal(result)
	if err != nil {
		log.Debug().Err(err).Msg("sending response")
		return
	}
	if len(data) > maxLoggedResult {
		log.Debug().
			Str("result", fmt.Sprintf("%s... (truncated, %d more chars)",
				data[:maxLoggedResult], len(data)-maxLoggedResult)).
			Msg("sending response")
		return
	}
	log.Debug().RawJSON("result", data).Msg("sending response")
}

func marshalResponse(id models.RPCID, result any) ([]byte, error) {
	logSafeResponse(result)
	data, err := json.Marshal(models.ResponseObject{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
	if err != nil {
		return nil, fmt.Errorf("error marshalling response: %w", err)
	}
	return data, nil
}

func marshalError(id models.RPCID, errObj *models.ErrorObject) ([]byte, error) {
	log.Debug().Int("code", errObj.Code).Str("message", errObj.Message).Msg("sending error")
	data, err := json.Marshal(models.ResponseErrorObject{
		JSONRPC: "2.0",
		ID:      id,
		Error:   errObj,
	})
	if err != nil {
		return nil, fmt.Errorf("error marshalling error response: %w", err)
	}
	return data, nil
}

// processRequestObject handles one raw JSON-RPC message and returns the
// reply to send. A nil reply means nothing is sent back, which is the case
// for notifications and client responses.
func processRequestObject(
	methodMap *MethodMap,
	env requests.RequestEnv, //nolint:gocritic // copied into the handler env
	msg []byte,
) ([]byte, error) {
	if !json.Valid(msg) {
		log.Warn().Msg("request is not valid json")
		return marshalError(models.NullRPCID, &JSONRPCErrorParseError)
	}

	var req models.RequestObject
	if err := json.Unmarshal(msg, &req); err != nil {
		log.Warn().Err(err).Msg("request does not match a request object")
		return marshalError(models.NullRPCID, &JSONRPCErrorInvalidRequest)
	}

	id := models.NullRPCID
	if !req.ID.IsAbsent() {
		id = *req.ID
	}

	if req.JSONRPC != "2.0" {
		log.Warn().Str("jsonrpc", req.JSONRPC).Msg("unsupported payload version")
		return marshalError(id, &JSONRPCErrorInvalidRequest)
	}

	if req.Method == "" {
		if req.ID.IsAbsent() {
			return marshalError(id, &JSONRPCErrorInvalidRequest)
		}
		log.Debug().Str("id", req.ID.String()).Msg("received response, ignoring")
		return nil, nil
	}

	if req.ID.IsAbsent() {
		// notifications run but never get a reply
		_, errObj := handleRequest(methodMap, env, req)
		if errObj != nil {
			log.Debug().Str("method", req.Method).Str("error", errObj.Message).Msg("notification failed")
		}
		return nil, nil
	}

	result, errObj := handleRequest(methodMap, env, req)
	if errObj != nil {
		return marshalError(id, errObj)
	}
	return marshalResponse(id, result)
}
