// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/lukso-whitelist/whitelist-deployer/pkg/evm"
)

func removeSurroundingParenthesis(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) > 0 {
		if string(s[0]) != "(" || string(s[len(s)-1]) != ")" {
			return "", fmt.Errorf("expected esp %q to be surrounded by parenthesis", s)
		}
		s = s[1 : len(s)-1]
	}
	return s, nil
}

func getWords(s string) []string {
	words := []string{}
	word := ""
	insideParenthesis := false
	for _, rune := range s {
		c := string(rune)
		if insideParenthesis {
			if c == ")" {
				words = append(words, word)
				word = ""
				insideParenthesis = false
			} else {
				word += c
			}
			continue
		}
		if c == " " || c == "," || c == "(" {
			if word != "" {
				words = append(words, word)
				word = ""
			}
		}
		if c == " " || c == "," {
			continue
		}
		if c == "(" {
			insideParenthesis = true
			continue
		}
		word += c
	}
	if word != "" {
		words = append(words, word)
	}
	return words
}

func getMap(
	types []string,
	params ...interface{},
) []map[string]interface{} {
	r := []map[string]interface{}{}
	for i, t := range types {
		spaceIndex := strings.Index(t, " ")
		commaIndex := strings.Index(t, ",")
		m := map[string]interface{}{}
		if spaceIndex != -1 || commaIndex != -1 {
			// complex type
			m["components"] = getMap(getWords(t), params[i])
			m["internaltype"] = "tuple"
			m["type"] = "tuple"
			m["name"] = ""
		} else {
			name := ""
			if len(params) == 1 {
				// struct params take their field names
				rt := reflect.TypeOf(params[0])
				if rt != nil && rt.Kind() == reflect.Struct && rt.NumField() == len(types) {
					name = rt.Field(i).Name
				}
			}
			m["internaltype"] = t
			m["type"] = t
			m["name"] = name
		}
		r = append(r, m)
	}
	return r
}

// ParseMethodEsp converts a method specification like
// "newWhitelist(string, uint256, uint256, address)->(uint256)" into its
// name and a single entry JSON ABI. An esp starting with "(" describes a
// constructor.
func ParseMethodEsp(
	methodEsp string,
	paid bool,
	view bool,
	params ...interface{},
) (string, string, error) {
	index := strings.Index(methodEsp, "(")
	if index == -1 {
		return methodEsp, "", nil
	}
	methodName := methodEsp[:index]
	methodTypes := methodEsp[index:]
	methodInputs := ""
	methodOutputs := ""
	index = strings.Index(methodTypes, "->")
	if index == -1 {
		methodInputs = methodTypes
	} else {
		methodInputs = methodTypes[:index]
		methodOutputs = methodTypes[index+2:]
	}
	var err error
	methodInputs, err = removeSurroundingParenthesis(methodInputs)
	if err != nil {
		return "", "", err
	}
	methodOutputs, err = removeSurroundingParenthesis(methodOutputs)
	if err != nil {
		return "", "", err
	}
	inputTypes := getWords(methodInputs)
	outputTypes := getWords(methodOutputs)
	inputs := getMap(inputTypes, params...)
	outputs := getMap(outputTypes)
	abiMap := []map[string]interface{}{
		{
			"inputs":          inputs,
			"outputs":         outputs,
			"name":            methodName,
			"statemutability": "nonpayable",
			"type":            "function",
		},
	}
	if methodName == "" {
		abiMap[0]["type"] = "constructor"
		delete(abiMap[0], "name")
		delete(abiMap[0], "outputs")
	}
	if paid {
		abiMap[0]["statemutability"] = "payable"
	}
	if view {
		abiMap[0]["statemutability"] = "view"
	}
	abiBytes, err := json.MarshalIndent(abiMap, "", "  ")
	if err != nil {
		return "", "", err
	}
	return methodName, string(abiBytes), nil
}

// parses [methodEsp] as a view method
func parseViewABI(methodEsp string, params ...interface{}) (string, *abi.ABI, error) {
	methodName, methodABI, err := ParseMethodEsp(methodEsp, false, true, params...)
	if err != nil {
		return "", nil, err
	}
	metadata := &bind.MetaData{
		ABI: methodABI,
	}
	parsed, err := metadata.GetAbi()
	if err != nil {
		return "", nil, err
	}
	return methodName, parsed, nil
}

// CallToMethod executes a read only call to [methodEsp] at [contractAddress]
func CallToMethod(
	ctx context.Context,
	client evm.Client,
	contractAddress common.Address,
	methodEsp string,
	params ...interface{},
) ([]interface{}, error) {
	methodName, parsed, err := parseViewABI(methodEsp, params...)
	if err != nil {
		return nil, err
	}
	contract := bind.NewBoundContract(contractAddress, *parsed, client.EthClient, client.EthClient, client.EthClient)
	var out []interface{}
	err = contract.Call(&bind.CallOpts{Context: ctx}, &out, methodName, params...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetSmartContractCallResult checks that [out] holds a single value of type T
func GetSmartContractCallResult[T any](methodName string, out []interface{}) (T, error) {
	if len(out) == 0 {
		return *new(T), fmt.Errorf("error at %s call: no value returned", methodName)
	}
	value, ok := out[0].(T)
	if !ok {
		return *new(T), fmt.Errorf("error at %s call, expected %T, got %T", methodName, *new(T), out[0])
	}
	return value, nil
}
