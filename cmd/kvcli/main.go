// Command kvcli is a small demo exercising every collection kind against an
// in-process storage.MemHost, in the same subcommand-per-operation style the
// teacher's root-level cmd-*.go files use.
package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	logging "github.com/ipfs/go-log/v2"
	"github.com/urfave/cli/v2"

	"github.com/chainkv/onchain-collections/codec"
	"github.com/chainkv/onchain-collections/iterable"
	"github.com/chainkv/onchain-collections/lookup"
	"github.com/chainkv/onchain-collections/ordered"
	"github.com/chainkv/onchain-collections/sequence"
	"github.com/chainkv/onchain-collections/storage"
	"github.com/chainkv/onchain-collections/storagemetrics"
)

var log = logging.Logger("kvcli")

var gitCommitSHA = ""

func main() {
	app := &cli.App{
		Name:        "kvcli",
		Version:     gitCommitSHA,
		Description: "exercises Sequence, Lookup, Iterable, and Ordered collections against an in-memory storage host",
		Commands: []*cli.Command{
			newCmd_Demo(),
			newCmd_Stats(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Errorw("kvcli failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newInstrumentedAdapter builds a fresh, metered storage.Adapter rooted at a
// freshly generated prefix, so repeated demo runs never collide. The metrics
// namespace is derived from the same generated id: Instrument registers
// Prometheus collectors on first use, and a real process only calls it once,
// but running multiple demo commands in one process (as the tests here do)
// must not trip Prometheus's duplicate-registration panic.
func newInstrumentedAdapter() (*storage.Adapter, []byte) {
	id := uuid.NewString()
	ns := "kvcli_" + id[:8]
	host := storagemetrics.Instrument(ns, storage.NewMemHost())
	return storage.New(host), []byte(id)
}

func newCmd_Demo() *cli.Command {
	return &cli.Command{
		Name:        "demo",
		Description: "walks through Sequence, Lookup Map, Iterable Map, and Ordered Map against an in-memory host",
		Action: func(cctx *cli.Context) error {
			a, prefix := newInstrumentedAdapter()

			seq := sequence.New[string](a, append(prefix, 'S'), codec.String{})
			if _, err := seq.Append("alpha"); err != nil {
				return fmt.Errorf("sequence append: %w", err)
			}
			if _, err := seq.Append("beta"); err != nil {
				return fmt.Errorf("sequence append: %w", err)
			}
			seqLen, err := seq.Len()
			if err != nil {
				return err
			}
			fmt.Printf("sequence: len=%d\n", seqLen)

			lm := lookup.NewMap[string, string](a, append(prefix, 'L'), codec.String{}, codec.String{})
			if err := lm.Set("name", "chainkv"); err != nil {
				return fmt.Errorf("lookup set: %w", err)
			}
			v, _, err := lm.Get("name")
			if err != nil {
				return err
			}
			fmt.Printf("lookup: name=%s\n", v)

			im, err := iterable.NewMap[string, uint64](a, append(prefix, 'I'), codec.String{}, codec.Uint64{})
			if err != nil {
				return fmt.Errorf("iterable new: %w", err)
			}
			sizes := map[string]uint64{"small": 1024, "medium": 1024 * 1024, "large": 1024 * 1024 * 1024}
			for name, size := range sizes {
				if err := im.Set(name, size); err != nil {
					return fmt.Errorf("iterable set: %w", err)
				}
			}
			it, err := im.IterEntries()
			if err != nil {
				return err
			}
			for {
				k, size, ok, err := it.Next()
				if err != nil {
					return err
				}
				if !ok {
					break
				}
				fmt.Printf("iterable: %s = %s\n", k, humanize.Bytes(size))
			}

			om, err := ordered.NewMap[uint64, string](a, append(prefix, 'O'), codec.OrderedUint64{}, codec.String{})
			if err != nil {
				return fmt.Errorf("ordered new: %w", err)
			}
			for _, h := range []uint64{300, 100, 200} {
				if err := om.Set(h, fmt.Sprintf("block-%d", h)); err != nil {
					return fmt.Errorf("ordered set: %w", err)
				}
			}
			min, err := om.MinKey()
			if err != nil {
				return err
			}
			max, err := om.MaxKey()
			if err != nil {
				return err
			}
			fmt.Printf("ordered: min=%d max=%d\n", min, max)

			return nil
		},
	}
}

func newCmd_Stats() *cli.Command {
	return &cli.Command{
		Name:        "stats",
		Description: "reports the size of a Sequence at the given prefix after appending n elements",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "prefix", Value: "demo"},
			&cli.IntFlag{Name: "n", Value: 10},
		},
		Action: func(cctx *cli.Context) error {
			a, _ := newInstrumentedAdapter()
			seq := sequence.New[[]byte](a, []byte(cctx.String("prefix")), codec.RawBytes{})
			n := cctx.Int("n")
			var totalBytes int
			for i := 0; i < n; i++ {
				payload := []byte(fmt.Sprintf("payload-%d", i))
				totalBytes += len(payload)
				if _, err := seq.Append(payload); err != nil {
					return err
				}
			}
			length, err := seq.Len()
			if err != nil {
				return err
			}
			fmt.Printf("appended %d elements, %s of payload\n", length, humanize.Bytes(uint64(totalBytes)))
			return nil
		},
	}
}
