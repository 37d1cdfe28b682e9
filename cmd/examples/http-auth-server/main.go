// Copyright (C) 2025 ANP Works
//
// This file is part of didwba-go.
//
// didwba-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// didwba-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with didwba-go.  If not, see <https://www.gnu.org/licenses/>.

// Example HTTP server that authenticates callers with DID-WBA and hands
// out bearer tokens after a successful signature handshake.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/anp-works/didwba-go/pkg/did"
	"github.com/anp-works/didwba-go/pkg/server"
	"github.com/anp-works/didwba-go/pkg/token"
	"github.com/anp-works/didwba-go/pkg/verifier"
)

func main() {
	var (
		addr   = flag.String("addr", ":9527", "listen address")
		domain = flag.String("domain", "example.com", "service domain callers sign for")
		secret = flag.String("token-secret", "", "HMAC secret for issued bearer tokens")
	)
	flag.Parse()

	if *secret == "" {
		log.Fatal("-token-secret is required")
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	resolver := did.NewWebResolver(did.WithResolverLogger(logger))
	v := verifier.New(resolver, verifier.WithLogger(logger))

	issuer, err := token.NewIssuer([]byte(*secret), token.WithIssuerName(*domain))
	if err != nil {
		log.Fatal(err)
	}

	mw := server.NewDIDAuthMiddleware(v, issuer, *domain)
	mw.SetLogger(logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/hello", func(w http.ResponseWriter, r *http.Request) {
		callerDID, _ := server.GetCallerDID(r.Context())
		fmt.Fprintf(w, "hello, %s\n", callerDID)
	})

	logger.Info("listening", zap.String("addr", *addr), zap.String("domain", *domain))
	if err := http.ListenAndServe(*addr, mw.Wrap(mux)); err != nil {
		log.Fatal(err)
	}
}
