package abi

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// RecordInfo describes one registered record type.
type RecordInfo struct {
	// Name is the C type name, such as sgx_report_t.
	Name   string
	Header string
	// Arch is ArchAny unless the layout depends on the word size.
	Arch Arch
	// Size is the native size excluding any flexible array member.
	Size     int
	Flexible bool
	// New returns a zero value of the record.
	New func() Record
}

// ShortName returns Name without the sgx_ prefix and _t suffix.
func (i RecordInfo) ShortName() string {
	return shortName(i.Name)
}

func shortName(name string) string {
	return strings.TrimSuffix(strings.TrimPrefix(name, "sgx_"), "_t")
}

type registration struct {
	name   string
	header string
	arch   Arch
	new    func() Record
}

var registrations = []registration{
	{"sgx_attributes_t", "sgx_attributes.h", ArchAny, func() Record { return new(Attributes) }},
	{"sgx_misc_attribute_t", "sgx_attributes.h", ArchAny, func() Record { return new(MiscAttribute) }},

	{"sgx_dh_msg1_t", "sgx_dh.h", ArchAny, func() Record { return new(DHMsg1) }},
	{"sgx_dh_msg2_t", "sgx_dh.h", ArchAny, func() Record { return new(DHMsg2) }},
	{"sgx_dh_msg3_body_t", "sgx_dh.h", ArchAny, func() Record { return new(DHMsg3Body) }},
	{"sgx_dh_msg3_t", "sgx_dh.h", ArchAny, func() Record { return new(DHMsg3) }},
	{"sgx_dh_session_enclave_identity_t", "sgx_dh.h", ArchAny, func() Record { return new(DHSessionEnclaveIdentity) }},
	{"sgx_dh_session_t", "sgx_dh.h", ArchAny, func() Record { return new(DHSession) }},

	{"sgx_ecc_param_t", "sgx_ecp_types.h", ArchAny, func() Record { return new(ECCParam) }},

	{"sgx_cpu_svn_t", "sgx_key.h", ArchAny, func() Record { return new(CPUSVN) }},
	{"sgx_key_id_t", "sgx_key.h", ArchAny, func() Record { return new(KeyID) }},
	{"sgx_key_request_t", "sgx_key.h", ArchAny, func() Record { return new(KeyRequest) }},

	{"sgx_ra_msg1_t", "sgx_key_exchange.h", ArchAny, func() Record { return new(RAMsg1) }},
	{"sgx_ra_msg2_t", "sgx_key_exchange.h", ArchAny, func() Record { return new(RAMsg2) }},
	{"sgx_ra_msg3_t", "sgx_key_exchange.h", ArchAny, func() Record { return new(RAMsg3) }},

	{"sgx_spid_t", "sgx_quote.h", ArchAny, func() Record { return new(SPID) }},
	{"sgx_basename_t", "sgx_quote.h", ArchAny, func() Record { return new(Basename) }},
	{"sgx_quote_nonce_t", "sgx_quote.h", ArchAny, func() Record { return new(QuoteNonce) }},
	{"sgx_update_info_bit_t", "sgx_quote.h", ArchAny, func() Record { return new(UpdateInfoBit) }},
	{"sgx_quote_t", "sgx_quote.h", ArchAny, func() Record { return new(Quote) }},
	{"sgx_platform_info_t", "sgx_quote.h", ArchAny, func() Record { return new(PlatformInfo) }},

	{"sgx_measurement_t", "sgx_report.h", ArchAny, func() Record { return new(Measurement) }},
	{"sgx_report_data_t", "sgx_report.h", ArchAny, func() Record { return new(ReportData) }},
	{"sgx_target_info_t", "sgx_report.h", ArchAny, func() Record { return new(TargetInfo) }},
	{"sgx_report_body_t", "sgx_report.h", ArchAny, func() Record { return new(ReportBody) }},
	{"sgx_report_t", "sgx_report.h", ArchAny, func() Record { return new(Report) }},

	{"sgx_mc_uuid_t", "sgx_tae_service.h", ArchAny, func() Record { return new(MCUUID) }},
	{"sgx_ps_sec_prop_desc_t", "sgx_tae_service.h", ArchAny, func() Record { return new(PSSecPropDesc) }},
	{"sgx_ps_sec_prop_desc_ex_t", "sgx_tae_service.h", ArchAny, func() Record { return new(PSSecPropDescEx) }},
	{"sgx_ps_cap_t", "sgx_uae_service.h", ArchAny, func() Record { return new(PSCap) }},

	{"sgx_ec256_dh_shared_t", "sgx_tcrypto.h", ArchAny, func() Record { return new(EC256DHShared) }},
	{"sgx_ec256_dh_shared512_t", "sgx_tcrypto.h", ArchAny, func() Record { return new(EC256DHShared512) }},
	{"sgx_ec256_private_t", "sgx_tcrypto.h", ArchAny, func() Record { return new(EC256Private) }},
	{"sgx_ec256_public_t", "sgx_tcrypto.h", ArchAny, func() Record { return new(EC256Public) }},
	{"sgx_ec256_signature_t", "sgx_tcrypto.h", ArchAny, func() Record { return new(EC256Signature) }},
	{"sgx_rsa3072_public_key_t", "sgx_tcrypto.h", ArchAny, func() Record { return new(RSA3072PublicKey) }},
	{"sgx_rsa3072_private_key_t", "sgx_tcrypto.h", ArchAny, func() Record { return new(RSA3072PrivateKey) }},
	{"sgx_rsa3072_signature_t", "sgx_tcrypto.h", ArchAny, func() Record { return new(RSA3072Signature) }},

	{"sgx_thread_queue_t", "sgx_thread.h", ArchX8664, func() Record { return new(ThreadQueue) }},
	{"sgx_thread_mutex_t", "sgx_thread.h", ArchX8664, func() Record { return new(ThreadMutex) }},
	{"sgx_thread_cond_t", "sgx_thread.h", ArchX8664, func() Record { return new(ThreadCond) }},
	{"sgx_thread_queue_t", "sgx_thread.h", ArchX86, func() Record { return new(ThreadQueue32) }},
	{"sgx_thread_mutex_t", "sgx_thread.h", ArchX86, func() Record { return new(ThreadMutex32) }},
	{"sgx_thread_cond_t", "sgx_thread.h", ArchX86, func() Record { return new(ThreadCond32) }},
	{"sgx_thread_mutexattr_t", "sgx_thread.h", ArchAny, func() Record { return new(ThreadMutexAttr) }},
	{"sgx_thread_condattr_t", "sgx_thread.h", ArchAny, func() Record { return new(ThreadCondAttr) }},

	{"sgx_cpu_context_t", "sgx_trts_exception.h", ArchX8664, func() Record { return new(CPUContext) }},
	{"sgx_exception_info_t", "sgx_trts_exception.h", ArchX8664, func() Record { return new(ExceptionInfo) }},
	{"sgx_cpu_context_t", "sgx_trts_exception.h", ArchX86, func() Record { return new(CPUContext32) }},
	{"sgx_exception_info_t", "sgx_trts_exception.h", ArchX86, func() Record { return new(ExceptionInfo32) }},

	{"sgx_aes_gcm_data_t", "sgx_tseal.h", ArchAny, func() Record { return new(AESGCMData) }},
	{"sgx_sealed_data_t", "sgx_tseal.h", ArchAny, func() Record { return new(SealedData) }},
}

var (
	registryOnce sync.Once
	records      []RecordInfo
	typeNames    map[reflect.Type]string
)

func loadRegistry() {
	typeNames = make(map[reflect.Type]string, len(registrations))
	for _, r := range registrations {
		v := r.new()
		s, err := shapeOf(reflect.TypeOf(v).Elem())
		if err != nil {
			panic(fmt.Sprintf("abi: registering %s: %v", r.name, err))
		}
		records = append(records, RecordInfo{
			Name:     r.name,
			Header:   r.header,
			Arch:     r.arch,
			Size:     s.fixed,
			Flexible: s.flexible,
			New:      r.new,
		})
		typeNames[reflect.TypeOf(v).Elem()] = r.name
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Header != records[j].Header {
			return records[i].Header < records[j].Header
		}
		return records[i].Name < records[j].Name
	})
}

// Records returns every registered record, ordered by header and name.
func Records() []RecordInfo {
	registryOnce.Do(loadRegistry)
	return append([]RecordInfo(nil), records...)
}

// LookupRecord finds a record by its C name (sgx_report_t) or short name
// (report). Word-size dependent records resolve to the variant for arch;
// ArchAny selects x86_64.
func LookupRecord(name string, arch Arch) (RecordInfo, error) {
	registryOnce.Do(loadRegistry)
	if arch == ArchAny {
		arch = ArchX8664
	}
	for _, r := range records {
		if r.Name != name && r.ShortName() != name {
			continue
		}
		if r.Arch == ArchAny || r.Arch == arch {
			return r, nil
		}
	}
	return RecordInfo{}, fmt.Errorf("unknown record %q for %s", name, arch)
}

// recordName returns the C name of a registered type, or its Go name.
func recordName(t reflect.Type) string {
	registryOnce.Do(loadRegistry)
	if name, ok := typeNames[t]; ok {
		return name
	}
	return t.Name()
}
