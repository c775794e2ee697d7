package platform

import (
	"fmt"

	"github.com/reglet-dev/portcfg/internal/domain"
	"github.com/reglet-dev/portcfg/internal/domain/toolchain"
	"github.com/reglet-dev/portcfg/internal/domain/values"
)

// Profile is the resolved set of integer types for a build target.
type Profile struct {
	Rule                  string
	MaxSignedSizeSpelling string
	DataModel             values.DataModel
	SignedWord            values.IntType
	UnsignedWord          values.IntType
	Offset                values.IntType
	Subsecond             values.IntType
	MaxSignedSize         int64
	WordWidth             int
	Endianness            values.Endianness
	LargeFileOffsets      bool

	// SSize and SSizeMaxSpelling are the ssize_t and SSIZE_MAX the port
	// declares for toolchains whose headers lack them. Empty otherwise.
	SSizeMaxSpelling string
	// OffsetAlias names the libc type declared as Offset, if any.
	OffsetAlias      string
	SSize            values.IntType
}

// Resolve selects the platform types for target. It is a pure function of
// its inputs; an unmatched architecture is a configuration error.
func Resolve(tc *toolchain.Profile, target Target) (*Profile, error) {
	if tc == nil {
		return nil, domain.NewConfigurationError(domain.AspectPlatform, "", "toolchain profile is required", nil)
	}

	t, err := target.normalize(tc)
	if err != nil {
		return nil, err
	}

	for _, rule := range wordRules {
		if !rule.matches(tc, t) {
			continue
		}

		bits := rule.bits(t)
		if bits != t.PointerWidth {
			// Word types must be exactly pointer width.
			continue
		}

		signed, err := values.NewIntType(rule.signed, bits, true)
		if err != nil {
			return nil, domain.NewConfigurationError(domain.AspectPlatform, rule.name, "invalid word type", err)
		}

		p := &Profile{
			Rule:                  rule.name,
			DataModel:             t.DataModel,
			WordWidth:             bits,
			SignedWord:            signed,
			UnsignedWord:          signed.Unsigned(rule.unsigned),
			MaxSignedSize:         signed.MaxSigned(),
			MaxSignedSizeSpelling: rule.maxSpelling(tc),
			Offset:                offsetType(signed, t.LargeFileOffsets),
			Subsecond:             values.MustNewIntType("long", t.DataModel.LongBits(), true),
			// Every supported target is little-endian; no run-time probing.
			Endianness:       values.LittleEndian,
			LargeFileOffsets: t.LargeFileOffsets,
		}
		p.declareLibcTypes(tc)
		return p, nil
	}

	return nil, domain.NewConfigurationError(domain.AspectPlatform,
		fmt.Sprintf("%s/%s", tc.Compiler, t.DataModel),
		"unmatched architecture: no word-type rule applies", nil)
}

// offsetType widens file offsets to 64 bits when large files are requested
// on a narrower word; otherwise offsets use the signed word.
func offsetType(word values.IntType, largeFile bool) values.IntType {
	if largeFile && word.Bits < 64 {
		return values.MustNewIntType("long long", 64, true)
	}
	return word
}

// declareLibcTypes fills in the ssize_t, SSIZE_MAX and off_t declarations
// MSVC's headers omit.
func (p *Profile) declareLibcTypes(tc *toolchain.Profile) {
	if tc.Compiler != toolchain.MSVC {
		return
	}
	p.SSize = p.SignedWord
	p.SSizeMaxSpelling = "_I32_MAX"
	if p.WordWidth == 64 {
		p.SSizeMaxSpelling = "_I64_MAX"
	}
	p.OffsetAlias = "off_t"
}
