package abi

// Sizes from sgx_report.h.
const (
	HashSize       = 32
	MACSize        = 16
	ReportDataSize = 64

	TargetInfoReserved1Bytes = 4
	TargetInfoReserved2Bytes = 456

	TargetInfoSize = 512
	ReportBodySize = 384
	ReportSize     = 432
)

// Measurement is sgx_measurement_t, a SHA-256 measurement register value.
type Measurement struct {
	M [HashSize]byte `json:"m"`
}

// MAC is sgx_mac_t.
type MAC [MACSize]byte

// ReportData is sgx_report_data_t, the user data bound into a report.
type ReportData struct {
	D [ReportDataSize]byte `json:"d"`
}

// ProdID is sgx_prod_id_t.
type ProdID uint16

// TargetInfo is sgx_target_info_t. It identifies the enclave a report is
// generated for.
type TargetInfo struct {
	MREnclave  Measurement                    `json:"mr_enclave"`
	Attributes Attributes                     `json:"attributes"`
	Reserved1  [TargetInfoReserved1Bytes]byte `json:"reserved1"`
	MiscSelect MiscSelect                     `json:"misc_select"`
	Reserved2  [TargetInfoReserved2Bytes]byte `json:"reserved2"`
}

// ReportBody is sgx_report_body_t.
type ReportBody struct {
	CPUSVN     CPUSVN      `json:"cpu_svn"`
	MiscSelect MiscSelect  `json:"misc_select"`
	Reserved1  [28]byte    `json:"reserved1"`
	Attributes Attributes  `json:"attributes"`
	MREnclave  Measurement `json:"mr_enclave"`
	Reserved2  [32]byte    `json:"reserved2"`
	MRSigner   Measurement `json:"mr_signer"`
	Reserved3  [96]byte    `json:"reserved3"`
	ISVProdID  ProdID      `json:"isv_prod_id"`
	ISVSVN     ISVSVN      `json:"isv_svn"`
	Reserved4  [60]byte    `json:"reserved4"`
	ReportData ReportData  `json:"report_data"`
}

// Report is sgx_report_t: a report body, the key ID used to derive the
// report key, and the CMAC over the body.
type Report struct {
	Body  ReportBody `json:"body"`
	KeyID KeyID      `json:"key_id"`
	MAC   MAC        `json:"mac"`
}

// TargetInfo returns the target info that names the enclave which produced
// the report, as a quoting or verifying enclave would need it to report back.
func (r *ReportBody) TargetInfo() TargetInfo {
	return TargetInfo{
		MREnclave:  r.MREnclave,
		Attributes: r.Attributes,
		MiscSelect: r.MiscSelect,
	}
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (m *Measurement) MarshalBinary() ([]byte, error) { return marshal(m) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (m *Measurement) UnmarshalBinary(data []byte) error { return unmarshal(data, m) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (d *ReportData) MarshalBinary() ([]byte, error) { return marshal(d) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (d *ReportData) UnmarshalBinary(data []byte) error { return unmarshal(data, d) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (t *TargetInfo) MarshalBinary() ([]byte, error) { return marshal(t) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (t *TargetInfo) UnmarshalBinary(data []byte) error { return unmarshal(data, t) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (r *ReportBody) MarshalBinary() ([]byte, error) { return marshal(r) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (r *ReportBody) UnmarshalBinary(data []byte) error { return unmarshal(data, r) }

// MarshalBinary implements encoding.BinaryMarshaler.
func (r *Report) MarshalBinary() ([]byte, error) { return marshal(r) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (r *Report) UnmarshalBinary(data []byte) error { return unmarshal(data, r) }
