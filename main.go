// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/pollosandino/andino/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
