package store

import (
	"bytes"
	"fmt"
	"hash"
	"hash/crc32"
	"time"

	"github.com/balzaczyy/golucene-compressing/core/util"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var boltFilesBucket = []byte("files")

/*
Directory keeping every file as one value of a bbolt bucket. An output
is buffered in memory and committed in a single transaction when it is
closed, so readers never observe a partially written file.
*/
type BoltDirectory struct {
	*DirectoryImpl
	db *bolt.DB
}

func OpenBoltDirectory(path string) (*BoltDirectory, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open bolt directory %v", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltFilesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	ans := &BoltDirectory{db: db}
	ans.DirectoryImpl = NewDirectoryImpl(ans)
	log.Debugf("Opened bolt directory %v", path)
	return ans, nil
}

func (d *BoltDirectory) ListAll() (names []string, err error) {
	if err = d.ensureOpen(); err != nil {
		return nil, err
	}
	err = d.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(boltFilesBucket).ForEach(func(k, v []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

func (d *BoltDirectory) FileExists(name string) bool {
	if d.closed {
		return false
	}
	found := false
	d.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(boltFilesBucket).Get([]byte(name)) != nil
		return nil
	})
	return found
}

func (d *BoltDirectory) FileLength(name string) (length int64, err error) {
	if err = d.ensureOpen(); err != nil {
		return 0, err
	}
	err = d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(boltFilesBucket).Get([]byte(name))
		if v == nil {
			return fileNotFound(name)
		}
		length = int64(len(v))
		return nil
	})
	return length, err
}

func (d *BoltDirectory) DeleteFile(name string) error {
	if err := d.ensureOpen(); err != nil {
		return err
	}
	return d.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(boltFilesBucket)
		if b.Get([]byte(name)) == nil {
			return fileNotFound(name)
		}
		return b.Delete([]byte(name))
	})
}

func (d *BoltDirectory) CreateOutput(name string, context IOContext) (IndexOutput, error) {
	if err := d.ensureOpen(); err != nil {
		return nil, err
	}
	ans := &boltIndexOutput{dir: d, name: name, crc: crc32.NewIEEE()}
	ans.DataOutputImpl = util.NewDataOutput(ans)
	return ans, nil
}

// Every closed output is already committed; Sync only flushes the
// database file, which matters when bolt runs with NoSync.
func (d *BoltDirectory) Sync(names []string) error {
	if err := d.ensureOpen(); err != nil {
		return err
	}
	return d.db.Sync()
}

func (d *BoltDirectory) OpenInput(name string, context IOContext) (IndexInput, error) {
	if err := d.ensureOpen(); err != nil {
		return nil, err
	}
	var data []byte
	err := d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(boltFilesBucket).Get([]byte(name))
		if v == nil {
			return fileNotFound(name)
		}
		// bolt values are only valid for the life of the transaction
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewSliceIndexInput(fmt.Sprintf("BoltIndexInput(name=%v)", name), data), nil
}

func (d *BoltDirectory) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	return d.db.Close()
}

func (d *BoltDirectory) String() string {
	return fmt.Sprintf("BoltDirectory@%v", d.db.Path())
}

type boltIndexOutput struct {
	*util.DataOutputImpl
	dir    *BoltDirectory
	name   string
	buf    bytes.Buffer
	crc    hash.Hash32
	closed bool
}

func (out *boltIndexOutput) WriteByte(b byte) error {
	out.crc.Write([]byte{b})
	return out.buf.WriteByte(b)
}

func (out *boltIndexOutput) WriteBytes(p []byte) error {
	out.crc.Write(p)
	_, err := out.buf.Write(p)
	return err
}

func (out *boltIndexOutput) FilePointer() int64 { return int64(out.buf.Len()) }

func (out *boltIndexOutput) Checksum() int64 { return int64(out.crc.Sum32()) }

func (out *boltIndexOutput) Close() error {
	if out.closed {
		return nil
	}
	out.closed = true
	return out.dir.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltFilesBucket).Put([]byte(out.name), out.buf.Bytes())
	})
}

func (out *boltIndexOutput) String() string {
	return fmt.Sprintf("BoltIndexOutput(name=%v)", out.name)
}
