package bnt

const (
	NumBitsInBase   = 2
	BaseMask        = (1 << NumBitsInBase) - 1
	NumBaseInByte   = 8 / NumBitsInBase
	NumBaseInUint64 = 64 / NumBitsInBase
	BaseTypeNum     = 4
	// InvalidBase marks a letter that is not one of ACGT/acgt
	InvalidBase = 4
)

// Base2Bnt map ASCII base to 2-bit code, A:0 C:1 G:2 T:3
var Base2Bnt [256]byte

// BitNtCharUp map 2-bit code back to upper case base
var BitNtCharUp = [BaseTypeNum]byte{'A', 'C', 'G', 'T'}

// BntRev the complement of 2-bit code
var BntRev = [BaseTypeNum]byte{3, 2, 1, 0}

// CharComp complement of ASCII base, other letters keep unchanged
var CharComp [256]byte

func init() {
	for i := range Base2Bnt {
		Base2Bnt[i] = InvalidBase
		CharComp[i] = byte(i)
	}
	for i, c := range BitNtCharUp {
		Base2Bnt[c] = byte(i)
		Base2Bnt[c+'a'-'A'] = byte(i)
	}
	pairs := []string{"AT", "CG", "RY", "KM", "BV", "DH", "NN", "SS", "WW"}
	for _, p := range pairs {
		a, b := p[0], p[1]
		CharComp[a], CharComp[b] = b, a
		CharComp[a+'a'-'A'], CharComp[b+'a'-'A'] = b+'a'-'A', a+'a'-'A'
	}
}

// IsDNA return true if all letters of seq belong to ACGT/acgt
func IsDNA(seq []byte) bool {
	for _, c := range seq {
		if Base2Bnt[c] == InvalidBase {
			return false
		}
	}
	return true
}

// Transform2Bnt convert ASCII sequence to 2-bit codes, return false if found
// letter not belong to ACGT
func Transform2Bnt(seq []byte, bs []byte) ([]byte, bool) {
	if cap(bs) < len(seq) {
		bs = make([]byte, len(seq))
	}
	bs = bs[:len(seq)]
	for i, c := range seq {
		b := Base2Bnt[c]
		if b == InvalidBase {
			return bs[:i], false
		}
		bs[i] = b
	}
	return bs, true
}

// Transform2Char convert 2-bit codes to upper case ASCII bases
func Transform2Char(bs []byte) []byte {
	cs := make([]byte, len(bs))
	for i, b := range bs {
		cs[i] = BitNtCharUp[b]
	}
	return cs
}

// GetReverseCompBnt return the reverse complement of 2-bit code array
func GetReverseCompBnt(bs []byte, rs []byte) []byte {
	if cap(rs) < len(bs) {
		rs = make([]byte, len(bs))
	}
	rs = rs[:len(bs)]
	for i, b := range bs {
		rs[len(bs)-1-i] = BntRev[b]
	}
	return rs
}

// GetReverseCompByteArr return the reverse complement of ASCII sequence
func GetReverseCompByteArr(seq []byte) []byte {
	rs := make([]byte, len(seq))
	for i, c := range seq {
		rs[len(seq)-1-i] = CharComp[c]
	}
	return rs
}
