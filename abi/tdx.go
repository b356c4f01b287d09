package abi

import (
	"fmt"

	tabi "github.com/google/go-tdx-guest/abi"
	pb "github.com/google/go-tdx-guest/proto/tdx"
)

// ToEnclaveReport converts the report body to the go-tdx-guest proto that
// carries the quoting enclave's report in a DCAP quote.
func (r *ReportBody) ToEnclaveReport() (*pb.EnclaveReport, error) {
	attributes, err := r.Attributes.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return &pb.EnclaveReport{
		CpuSvn:     clone(r.CPUSVN.SVN[:]),
		MiscSelect: uint32(r.MiscSelect),
		Reserved1:  clone(r.Reserved1[:]),
		Attributes: attributes,
		MrEnclave:  clone(r.MREnclave.M[:]),
		Reserved2:  clone(r.Reserved2[:]),
		MrSigner:   clone(r.MRSigner.M[:]),
		Reserved3:  clone(r.Reserved3[:]),
		IsvProdId:  uint32(r.ISVProdID),
		IsvSvn:     uint32(r.ISVSVN),
		Reserved4:  clone(r.Reserved4[:]),
		ReportData: clone(r.ReportData.D[:]),
	}, nil
}

// ReportBodyFromEnclaveReport converts a go-tdx-guest enclave report to a
// report body. Every byte field must have its native length.
func ReportBodyFromEnclaveReport(er *pb.EnclaveReport) (*ReportBody, error) {
	var r ReportBody
	if er.GetIsvProdId() > 0xffff {
		return nil, fmt.Errorf("isv_prod_id %d does not fit in 16 bits", er.GetIsvProdId())
	}
	if er.GetIsvSvn() > 0xffff {
		return nil, fmt.Errorf("isv_svn %d does not fit in 16 bits", er.GetIsvSvn())
	}
	if len(er.GetReportData()) != tabi.ReportDataSize {
		return nil, fmt.Errorf("report_data is %d bytes, want %d", len(er.GetReportData()), tabi.ReportDataSize)
	}
	fields := []struct {
		name string
		dst  []byte
		src  []byte
	}{
		{"cpu_svn", r.CPUSVN.SVN[:], er.GetCpuSvn()},
		{"reserved1", r.Reserved1[:], er.GetReserved1()},
		{"mr_enclave", r.MREnclave.M[:], er.GetMrEnclave()},
		{"reserved2", r.Reserved2[:], er.GetReserved2()},
		{"mr_signer", r.MRSigner.M[:], er.GetMrSigner()},
		{"reserved3", r.Reserved3[:], er.GetReserved3()},
		{"reserved4", r.Reserved4[:], er.GetReserved4()},
		{"report_data", r.ReportData.D[:], er.GetReportData()},
	}
	for _, f := range fields {
		if len(f.src) != len(f.dst) {
			return nil, fmt.Errorf("%s is %d bytes, want %d", f.name, len(f.src), len(f.dst))
		}
		copy(f.dst, f.src)
	}
	if err := r.Attributes.UnmarshalBinary(er.GetAttributes()); err != nil {
		return nil, fmt.Errorf("attributes: %w", err)
	}
	r.MiscSelect = MiscSelect(er.GetMiscSelect())
	r.ISVProdID = ProdID(er.GetIsvProdId())
	r.ISVSVN = ISVSVN(er.GetIsvSvn())
	return &r, nil
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
