// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package whitelistfactory

// ABIJSON is the input ABI used to generate the binding from.
const ABIJSON = `[
	{"type":"constructor","inputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"owner","inputs":[],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
	{"type":"function","name":"count","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"transferOwnership","inputs":[{"name":"newOwner","type":"address"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"newWhitelist","inputs":[
		{"name":"metadata","type":"string"},
		{"name":"startTime","type":"uint256"},
		{"name":"endTime","type":"uint256"},
		{"name":"owner","type":"address"}
	],"outputs":[{"name":"id","type":"uint256"}],"stateMutability":"nonpayable"},
	{"type":"function","name":"whitelist","inputs":[{"name":"id","type":"uint256"}],"outputs":[
		{"name":"startTime","type":"uint256"},
		{"name":"endTime","type":"uint256"},
		{"name":"owner","type":"address"},
		{"name":"metadataHash","type":"bytes32"}
	],"stateMutability":"view"},
	{"type":"event","name":"OwnershipTransferred","anonymous":false,"inputs":[
		{"name":"previousOwner","type":"address","indexed":true},
		{"name":"newOwner","type":"address","indexed":true}
	]},
	{"type":"event","name":"WhitelistCreated","anonymous":false,"inputs":[
		{"name":"id","type":"uint256","indexed":true},
		{"name":"metadata","type":"string","indexed":false},
		{"name":"startTime","type":"uint256","indexed":false},
		{"name":"endTime","type":"uint256","indexed":false},
		{"name":"owner","type":"address","indexed":false}
	]}
]`
