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

// Example client that calls a DID-WBA protected endpoint. The first
// request carries a signed DIDWba header; subsequent requests to the
// same domain reuse the bearer token the server handed back.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/anp-works/didwba-go/pkg/client"
	"github.com/anp-works/didwba-go/pkg/did"
	"github.com/anp-works/didwba-go/pkg/signer"
)

func main() {
	var (
		docPath = flag.String("did-doc", "did.json", "path to the caller's DID document")
		keyPath = flag.String("key", "key.hex", "path to the hex-encoded secp256k1 private key")
		url     = flag.String("url", "http://localhost:9527/hello", "endpoint to call")
	)
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	docJSON, err := os.ReadFile(*docPath)
	if err != nil {
		log.Fatal(err)
	}
	doc, err := did.ParseDocument(docJSON)
	if err != nil {
		log.Fatal(err)
	}

	keyHex, err := os.ReadFile(*keyPath)
	if err != nil {
		log.Fatal(err)
	}
	keyBytes, err := hex.DecodeString(strings.TrimSpace(string(keyHex)))
	if err != nil {
		log.Fatal(err)
	}
	cred, err := signer.NewSecp256k1Credential(keyBytes)
	if err != nil {
		log.Fatal(err)
	}

	s, err := signer.New(doc, cred, signer.WithLogger(logger))
	if err != nil {
		log.Fatal(err)
	}
	c := client.NewWBAClient(s, client.WithLogger(logger))

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		resp, err := c.Get(ctx, *url)
		if err != nil {
			log.Fatal(err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		fmt.Printf("request %d: %s -> %s", i+1, resp.Status, body)
	}
}
