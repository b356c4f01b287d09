package bundle

import (
	"fmt"
	"strings"

	"github.com/google/go-sgx-tools/abi"
)

// Kind identifies the record type carried by an entry.
type Kind uint8

// Record kinds.
const (
	KindTargetInfo Kind = iota + 1
	KindReport
	KindReportBody
	KindQuote
	KindKeyRequest
	KindSealedData
	KindRAMsg1
	KindRAMsg2
	KindRAMsg3
	KindDHMsg1
	KindDHMsg2
	KindDHMsg3
	KindPlatformInfo
	KindPSSecPropDesc
)

var kindRecords = map[Kind]string{
	KindTargetInfo:    "sgx_target_info_t",
	KindReport:        "sgx_report_t",
	KindReportBody:    "sgx_report_body_t",
	KindQuote:         "sgx_quote_t",
	KindKeyRequest:    "sgx_key_request_t",
	KindSealedData:    "sgx_sealed_data_t",
	KindRAMsg1:        "sgx_ra_msg1_t",
	KindRAMsg2:        "sgx_ra_msg2_t",
	KindRAMsg3:        "sgx_ra_msg3_t",
	KindDHMsg1:        "sgx_dh_msg1_t",
	KindDHMsg2:        "sgx_dh_msg2_t",
	KindDHMsg3:        "sgx_dh_msg3_t",
	KindPlatformInfo:  "sgx_platform_info_t",
	KindPSSecPropDesc: "sgx_ps_sec_prop_desc_t",
}

// RecordName returns the C name of the record the kind carries, or "" for
// an unknown kind.
func (k Kind) RecordName() string {
	return kindRecords[k]
}

func (k Kind) String() string {
	if name, ok := kindRecords[k]; ok {
		return strings.TrimSuffix(strings.TrimPrefix(name, "sgx_"), "_t")
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind accepts a kind by its short name (quote) or record name
// (sgx_quote_t).
func ParseKind(s string) (Kind, error) {
	for k, name := range kindRecords {
		if s == name || s == k.String() {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown bundle entry kind %q", s)
}

// Kinds returns every known kind in ascending order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindRecords))
	for k := KindTargetInfo; k <= KindPSSecPropDesc; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

func (k Kind) info() (abi.RecordInfo, error) {
	name, ok := kindRecords[k]
	if !ok {
		return abi.RecordInfo{}, fmt.Errorf("unknown bundle entry kind %d", uint8(k))
	}
	return abi.LookupRecord(name, abi.ArchAny)
}
