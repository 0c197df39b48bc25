package core

import (
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the persisted index schema. The schema
// is three small flat structs, so the serializers are maintained by hand
// rather than generated.
var (
	IDMUS        = idMUS{}
	FragmentMUS  = fragmentMUS{}
	VectorMUS    = ord.NewSliceSer[float32](varint.Float32)
	IndexMetaMUS = indexMetaMUS{}
)

var (
	_ mus.Serializer[ID]        = idMUS{}
	_ mus.Serializer[Fragment]  = fragmentMUS{}
	_ mus.Serializer[IndexMeta] = indexMetaMUS{}
)

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (id ID, n int, err error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) (size int) {
	return varint.Uint64.Size(uint64(id))
}

func (idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

type fragmentMUS struct{}

func (s fragmentMUS) Marshal(f Fragment, bs []byte) (n int) {
	n = IDMUS.Marshal(f.Id, bs)
	n += ord.String.Marshal(f.DocumentID, bs[n:])
	n += ord.String.Marshal(f.Title, bs[n:])
	n += ord.String.Marshal(f.Text, bs[n:])
	n += ord.String.Marshal(f.SourceLabel, bs[n:])
	return n
}

func (s fragmentMUS) Unmarshal(bs []byte) (f Fragment, n int, err error) {
	var n1 int
	f.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	f.DocumentID, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	f.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	f.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	f.SourceLabel, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s fragmentMUS) Size(f Fragment) (size int) {
	size = IDMUS.Size(f.Id)
	size += ord.String.Size(f.DocumentID)
	size += ord.String.Size(f.Title)
	size += ord.String.Size(f.Text)
	size += ord.String.Size(f.SourceLabel)
	return size
}

func (s fragmentMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	for i := 0; i < 4; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

type indexMetaMUS struct{}

func (s indexMetaMUS) Marshal(m IndexMeta, bs []byte) (n int) {
	n = varint.Int.Marshal(m.Dimension, bs)
	n += varint.Int.Marshal(m.FragmentCount, bs[n:])
	n += varint.Int.Marshal(m.DocumentCount, bs[n:])
	n += ord.String.Marshal(m.Model, bs[n:])
	n += IDMUS.Marshal(m.Fingerprint, bs[n:])
	n += varint.Int64.Marshal(m.BuiltAt.UnixMicro(), bs[n:])
	return n
}

func (s indexMetaMUS) Unmarshal(bs []byte) (m IndexMeta, n int, err error) {
	var n1 int
	m.Dimension, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	m.FragmentCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	m.DocumentCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	m.Model, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	m.Fingerprint, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	m.BuiltAt = time.UnixMicro(micros).UTC()
	return
}

func (s indexMetaMUS) Size(m IndexMeta) (size int) {
	size = varint.Int.Size(m.Dimension)
	size += varint.Int.Size(m.FragmentCount)
	size += varint.Int.Size(m.DocumentCount)
	size += ord.String.Size(m.Model)
	size += IDMUS.Size(m.Fingerprint)
	size += varint.Int64.Size(m.BuiltAt.UnixMicro())
	return size
}

func (s indexMetaMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	for i := 0; i < 3; i++ {
		n1, err = varint.Int.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = IDMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	return
}
