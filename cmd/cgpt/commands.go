package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	cli "github.com/urfave/cli/v2"

	"github.com/crosutils/cgpt/gpt"
)

const (
	deviceFlag     = "device"
	indexFlag      = "index"
	priorityFlag   = "priority"
	triesFlag      = "tries"
	successfulFlag = "successful"
	legacyFlag     = "legacy-bootable"
)

var deviceFlagDef = &cli.StringFlag{
	Name:     deviceFlag,
	Aliases:  []string{"d"},
	Usage:    "disk image or block device to operate on",
	Required: true,
}

var showCommand = &cli.Command{
	Name:  "show",
	Usage: "validates a GPT image and prints its status and kernel boot attributes",
	Flags: []cli.Flag{deviceFlagDef},
	Action: func(cliCtx *cli.Context) error {
		log := newLogger()
		dv, d, err := loadDevice(cliCtx)
		if err != nil {
			return err
		}
		defer dv.Close()

		errCode := gpt.SanityCheck(d)
		log.WithFields(map[string]interface{}{
			"valid_headers": d.ValidHeaders,
			"valid_entries": d.ValidEntries,
			"error":         errCode.Error(),
		}).Info("sanity check complete")

		fmt.Printf("valid headers: %v, valid entries: %v (%s)\n", d.ValidHeaders, d.ValidEntries, errCode.Error())
		for i := 0; i < gpt.MaxNumberOfEntries; i++ {
			e := gpt.EntryAt(d, i)
			if gpt.IsUnusedEntry(e) {
				continue
			}
			kind := "data"
			if gpt.IsKernelEntry(e) {
				kind = "kernel"
			}
			fmt.Printf("%3d: %-6s [%d,%d] name=%q", i, kind, e.StartingLBA, e.EndingLBA, e.Name16())
			if gpt.IsKernelEntry(e) {
				fmt.Printf(" priority=%d tries=%d successful=%v legacy=%v",
					gpt.GetPriority(d, i), gpt.GetTries(d, i), gpt.GetSuccessful(d, i), gpt.GetLegacyBootable(d, i))
			}
			fmt.Println()
		}
		return nil
	},
}

var repairCommand = &cli.Command{
	Name:  "repair",
	Usage: "repairs a damaged GPT copy from its intact counterpart",
	Flags: []cli.Flag{deviceFlagDef},
	Action: func(cliCtx *cli.Context) error {
		log := newLogger()
		dv, d, err := loadDevice(cliCtx)
		if err != nil {
			return err
		}
		defer dv.Close()

		gpt.SanityCheck(d)
		if d.ValidHeaders == gpt.MaskNone || d.ValidEntries == gpt.MaskNone {
			return errors.New("no recoverable copy: at least one good header and one good entry table are required")
		}

		gpt.Repair(d)
		if d.ValidHeaders != gpt.MaskBoth || d.ValidEntries != gpt.MaskBoth {
			return errors.New("repair could not reconcile both copies; refusing to write a partially-repaired image")
		}
		log.WithField("modified", d.Modified).Info("repair complete")

		return dv.Persist(d)
	},
}

var prioritizeCommand = &cli.Command{
	Name:  "prioritize",
	Usage: "makes the given kernel entry the highest boot priority",
	Flags: []cli.Flag{
		deviceFlagDef,
		&cli.IntFlag{Name: indexFlag, Required: true, Usage: "index of the kernel entry to prioritize"},
	},
	Action: func(cliCtx *cli.Context) error {
		dv, d, err := loadDevice(cliCtx)
		if err != nil {
			return err
		}
		defer dv.Close()

		gpt.SanityCheck(d)
		target := cliCtx.Int(indexFlag)
		if err := prioritize(d, target); err != nil {
			return err
		}

		gpt.GptModified(d)
		return dv.Persist(d)
	},
}

// prioritize renumbers every kernel entry's priority so that target becomes
// the highest, preserving the relative order of the others. This is a
// ChromiumOS cgpt convenience built entirely on the boot-attribute accessors.
func prioritize(d *gpt.Data, target int) error {
	e := gpt.EntryAt(d, target)
	if gpt.IsUnusedEntry(e) || !gpt.IsKernelEntry(e) {
		return gpt.ErrNoSuchEntry
	}

	type kernel struct {
		index    int
		priority uint8
	}
	var kernels []kernel
	for i := 0; i < gpt.MaxNumberOfEntries; i++ {
		ei := gpt.EntryAt(d, i)
		if gpt.IsKernelEntry(ei) {
			kernels = append(kernels, kernel{i, gpt.GetPriority(d, i)})
		}
	}
	// Stable sort by current priority, highest first, so the ranks assigned
	// below keep the existing order among the non-target kernels.
	for i := 1; i < len(kernels); i++ {
		for j := i; j > 0 && kernels[j].priority > kernels[j-1].priority; j-- {
			kernels[j], kernels[j-1] = kernels[j-1], kernels[j]
		}
	}

	// Highest priority value is 15 (4 bits); assign target that value and
	// shift every other kernel down by one relative rank, clamping at 0.
	const maxPriority = 15
	next := uint8(maxPriority - 1)
	for _, k := range kernels {
		if k.index == target {
			gpt.SetPriority(d, k.index, maxPriority)
			continue
		}
		gpt.SetPriority(d, k.index, next)
		if next > 0 {
			next--
		}
	}
	return nil
}

var bootCommand = &cli.Command{
	Name:  "boot",
	Usage: "gets or sets boot attributes on a single entry",
	Flags: []cli.Flag{
		deviceFlagDef,
		&cli.IntFlag{Name: indexFlag, Required: true},
		&cli.IntFlag{Name: priorityFlag, Value: -1, Usage: "new priority (0-15), omit to leave unchanged"},
		&cli.IntFlag{Name: triesFlag, Value: -1, Usage: "new tries (0-15), omit to leave unchanged"},
		&cli.BoolFlag{Name: successfulFlag},
		&cli.BoolFlag{Name: legacyFlag},
	},
	Action: func(cliCtx *cli.Context) error {
		dv, d, err := loadDevice(cliCtx)
		if err != nil {
			return err
		}
		defer dv.Close()

		gpt.SanityCheck(d)
		idx := cliCtx.Int(indexFlag)

		changed := false
		if p := cliCtx.Int(priorityFlag); p >= 0 {
			gpt.SetPriority(d, idx, uint8(p))
			changed = true
		}
		if tr := cliCtx.Int(triesFlag); tr >= 0 {
			gpt.SetTries(d, idx, uint8(tr))
			changed = true
		}
		if cliCtx.IsSet(successfulFlag) {
			gpt.SetSuccessful(d, idx, cliCtx.Bool(successfulFlag))
			changed = true
		}
		if cliCtx.IsSet(legacyFlag) {
			gpt.SetLegacyBootable(d, idx, cliCtx.Bool(legacyFlag))
			changed = true
		}

		fmt.Printf("priority=%d tries=%d successful=%v legacy=%v\n",
			gpt.GetPriority(d, idx), gpt.GetTries(d, idx), gpt.GetSuccessful(d, idx), gpt.GetLegacyBootable(d, idx))

		if !changed {
			return nil
		}
		gpt.GptModified(d)
		return dv.Persist(d)
	},
}

var addCommand = &cli.Command{
	Name:  "add",
	Usage: "appends a new kernel entry at the first free slot",
	Flags: []cli.Flag{
		deviceFlagDef,
		&cli.Uint64Flag{Name: "start-lba", Required: true},
		&cli.Uint64Flag{Name: "end-lba", Required: true},
	},
	Action: func(cliCtx *cli.Context) error {
		dv, d, err := loadDevice(cliCtx)
		if err != nil {
			return err
		}
		defer dv.Close()

		gpt.SanityCheck(d)
		slot := -1
		for i := 0; i < gpt.MaxNumberOfEntries; i++ {
			if gpt.IsUnusedEntry(gpt.EntryAt(d, i)) {
				slot = i
				break
			}
		}
		if slot < 0 {
			return errors.New("no free entry slot")
		}

		unique, err := uuid.NewRandom()
		if err != nil {
			return errors.Wrap(err, "generating partition GUID")
		}

		writeNewKernelEntry(d, slot, unique, cliCtx.Uint64("start-lba"), cliCtx.Uint64("end-lba"))
		gpt.GptModified(d)
		return dv.Persist(d)
	},
}

func loadDevice(cliCtx *cli.Context) (*device, *gpt.Data, error) {
	dv, err := openDevice(cliCtx.String(deviceFlag))
	if err != nil {
		return nil, nil, err
	}
	d, err := dv.Load()
	if err != nil {
		dv.Close()
		return nil, nil, err
	}
	return dv, d, nil
}
