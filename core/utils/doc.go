// Package utils provides small conversion helpers shared by the store
// implementations, chiefly turning loosely typed identifier values (JSON
// numbers, SQL driver values) into canonical strings.
package utils
