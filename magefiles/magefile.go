//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for puzzlelog using Mage.
//
// Usage:
//
//	mage build          Compile the puzzlelog binary to bin/
//	mage install        Install puzzlelog to GOPATH/bin
//	mage clean          Remove build artifacts
//	mage test:all       Run every test
//	mage test:short     Run tests with -short
//	mage test:cover     Write coverage.out and print the per-function summary
//	mage test:golden    Regenerate golden files under testdata/
//	mage lint           Run golangci-lint
package main
