package superblock

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deploymenttheory/go-aefs/internal/cipher"
	"github.com/deploymenttheory/go-aefs/internal/crypto"
	"github.com/deploymenttheory/go-aefs/internal/types"
	"github.com/deploymenttheory/go-aefs/internal/volume"
)

func recordTestSuperblock(t *testing.T, flags types.CryptoFlags) *SuperBlock {
	t.Helper()

	raw := crypto.DeriveKey("record codec test", 32)
	key, err := cipher.NewKey(cipher.NewAES(), 16, 32, raw)
	crypto.Wipe(raw)
	if err != nil {
		t.Fatalf("NewKey failed: %v", err)
	}
	t.Cleanup(key.Destroy)

	return &SuperBlock{
		basePath: filepath.Join(t.TempDir(), "vol"),
		key:      key,
		parms:    volume.Parms{CryptoFlags: flags},
	}
}

func TestRecordRoundTrip(t *testing.T) {
	for _, flags := range []types.CryptoFlags{0, types.FlagUseCBC} {
		sb := recordTestSuperblock(t, flags)
		sb.Flags = 0xB0
		sb.RootID = 42
		sb.Label = "backups"
		sb.Description = "nightly backup volume"

		if err := sb.writeRecord(); err != nil {
			t.Fatalf("writeRecord failed: %v", err)
		}

		out := &SuperBlock{basePath: sb.basePath, key: sb.key, parms: sb.parms}
		if err := out.readRecord(); err != nil {
			t.Fatalf("readRecord failed: %v", err)
		}

		if out.Magic != types.SuperblockMagic {
			t.Errorf("magic = 0x%08X, want 0x%08X", out.Magic, types.SuperblockMagic)
		}
		if out.Version != types.VersionCurrent {
			t.Errorf("version = %d, want %d", out.Version, types.VersionCurrent)
		}
		if out.Flags != sb.Flags || out.RootID != sb.RootID {
			t.Errorf("flags/rootID = 0x%X/%d, want 0x%X/%d",
				out.Flags, out.RootID, sb.Flags, sb.RootID)
		}
		if out.Label != sb.Label || out.Description != sb.Description {
			t.Errorf("label/description = %q/%q, want %q/%q",
				out.Label, out.Description, sb.Label, sb.Description)
		}
	}
}

func TestRecordWriteVariesCiphertext(t *testing.T) {
	sb := recordTestSuperblock(t, types.FlagUseCBC)
	sb.Label = "same metadata"

	path := sb.basePath + types.RecordFileSuffix

	if err := sb.writeRecord(); err != nil {
		t.Fatalf("writeRecord failed: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading record: %v", err)
	}

	if err := sb.writeRecord(); err != nil {
		t.Fatalf("writeRecord failed: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading record: %v", err)
	}

	if string(first) == string(second) {
		t.Error("two writes of identical metadata produced identical ciphertext")
	}
}

func TestRecordLabelTruncation(t *testing.T) {
	sb := recordTestSuperblock(t, types.FlagUseCBC)
	sb.Label = strings.Repeat("L", types.LabelSize+50)
	sb.Description = strings.Repeat("D", types.DescriptionSize+50)

	if err := sb.writeRecord(); err != nil {
		t.Fatalf("writeRecord failed: %v", err)
	}

	out := &SuperBlock{basePath: sb.basePath, key: sb.key, parms: sb.parms}
	if err := out.readRecord(); err != nil {
		t.Fatalf("readRecord failed: %v", err)
	}

	if len(out.Label) != types.LabelSize-1 {
		t.Errorf("label length %d, want %d", len(out.Label), types.LabelSize-1)
	}
	if len(out.Description) != types.DescriptionSize-1 {
		t.Errorf("description length %d, want %d", len(out.Description), types.DescriptionSize-1)
	}
}

func TestRecordReadBoundsGarbageStrings(t *testing.T) {
	// A record whose string fields carry no terminator (wrong key or
	// corruption) must still come back bounded by the field widths.
	sb := recordTestSuperblock(t, 0)

	plain := make([]byte, types.SectorSize)
	for i := range plain {
		plain[i] = 0xFF
	}
	payload := plain[types.SectorRandomSize:]
	binary.LittleEndian.PutUint32(payload[types.RecordMagicOffset:], types.SuperblockMagic)
	binary.LittleEndian.PutUint32(payload[types.RecordVersionOffset:], types.VersionCurrent)

	enc := make([]byte, types.SectorSize)
	if err := crypto.EncryptSector(enc, plain, sb.key, sb.parms.CryptoFlags); err != nil {
		t.Fatalf("EncryptSector failed: %v", err)
	}
	if err := os.WriteFile(sb.basePath+types.RecordFileSuffix, enc, 0600); err != nil {
		t.Fatalf("writing record fixture: %v", err)
	}

	if err := sb.readRecord(); err != nil {
		t.Fatalf("readRecord failed: %v", err)
	}
	if len(sb.Label) > types.LabelSize-1 {
		t.Errorf("label length %d exceeds bound %d", len(sb.Label), types.LabelSize-1)
	}
	if len(sb.Description) > types.DescriptionSize-1 {
		t.Errorf("description length %d exceeds bound %d", len(sb.Description), types.DescriptionSize-1)
	}
}

func TestRecordReadShortFile(t *testing.T) {
	sb := recordTestSuperblock(t, 0)

	short := make([]byte, types.SectorSize/2)
	if _, err := rand.Read(short); err != nil {
		t.Fatalf("rand: %v", err)
	}
	if err := os.WriteFile(sb.basePath+types.RecordFileSuffix, short, 0600); err != nil {
		t.Fatalf("writing record fixture: %v", err)
	}

	if err := sb.readRecord(); !errors.Is(err, types.ErrStorage) {
		t.Errorf("readRecord on short file = %v, want ErrStorage", err)
	}
}

func TestRecordReadMissingFile(t *testing.T) {
	sb := recordTestSuperblock(t, 0)

	if err := sb.readRecord(); !errors.Is(err, types.ErrStorage) {
		t.Errorf("readRecord on missing file = %v, want ErrStorage", err)
	}
}
