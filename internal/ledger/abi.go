package ledger

import (
	_ "embed"
)

var (
	//go:embed abi/oracle.json
	oracleABIJSON []byte
	//go:embed abi/contest.json
	contestABIJSON []byte

	oracleABI  = mustParseABI(oracleABIJSON)
	contestABI = mustParseABI(contestABIJSON)
)
