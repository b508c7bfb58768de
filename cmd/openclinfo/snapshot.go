package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/cwbudde/openclinfo/internal/clinfo"
	"github.com/cwbudde/openclinfo/internal/store"
)

var (
	snapshotDataDir string
	showFormat      = clinfo.FormatJSONIndent
	keepLast        int
	olderThanDays   int
	forceClean      bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save and compare capability snapshots",
	Long: `Snapshots persist enumeration results so the device inventory of a host
can be compared over time.`,
}

var saveSnapshotCmd = &cobra.Command{
	Use:   "save",
	Short: "Enumerate and store a snapshot",
	Args:  cobra.NoArgs,
	RunE:  runSaveSnapshot,
}

var listSnapshotsCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots",
	Args:  cobra.NoArgs,
	RunE:  runListSnapshots,
}

var showSnapshotCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the document of a stored snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runShowSnapshot,
}

var diffSnapshotCmd = &cobra.Command{
	Use:   "diff <id> [id|live]",
	Short: "Compare two snapshots, or a snapshot with a live enumeration",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runDiffSnapshots,
}

var historySnapshotCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the enumeration history log",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotHistory,
}

var cleanSnapshotsCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete old snapshots",
	Long: `Delete snapshots based on a retention policy. Keep the newest N snapshots
with --keep-last, delete snapshots older than N days with --older-than, or both.`,
	Args: cobra.NoArgs,
	RunE: runCleanSnapshots,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(saveSnapshotCmd, listSnapshotsCmd, showSnapshotCmd, diffSnapshotCmd, historySnapshotCmd, cleanSnapshotsCmd)

	snapshotCmd.PersistentFlags().StringVar(&snapshotDataDir, "data-dir", "./data", "Base directory for snapshot storage")

	showSnapshotCmd.Flags().VarP(&showFormat, "format", "o", "Output format (json, json-indent, yaml, cbor)")

	cleanSnapshotsCmd.Flags().IntVar(&keepLast, "keep-last", 0, "Keep only the newest N snapshots (0 = keep all)")
	cleanSnapshotsCmd.Flags().IntVar(&olderThanDays, "older-than", 0, "Delete snapshots older than N days (0 = no age limit)")
	cleanSnapshotsCmd.Flags().BoolVarP(&forceClean, "force", "f", false, "Skip confirmation prompt")
}

func openStore() (*store.FSStore, error) {
	snapshots, err := store.NewFSStore(snapshotDataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot store: %w", err)
	}
	return snapshots, nil
}

func runSaveSnapshot(cmd *cobra.Command, args []string) error {
	snapshots, err := openStore()
	if err != nil {
		return err
	}
	enumerator, err := newEnumerator()
	if err != nil {
		return err
	}

	previous, err := snapshots.List()
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}

	snapshot := store.NewSnapshot(enumerator.Enumerate())
	if err := snapshots.Save(snapshot); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	if err := store.AppendHistory(snapshotDataDir, store.NewHistoryEntry(snapshot)); err != nil {
		slog.Warn("Failed to append history", "id", snapshot.ID, "error", err)
	}

	info := snapshot.ToInfo()
	fmt.Fprintf(cmd.OutOrStdout(), "Saved snapshot %s (%s, %d platform(s), %d device(s))\n",
		info.ID, info.Outcome, info.Platforms, info.Devices)
	if n := len(previous); n > 0 && previous[n-1].Digest != "" && previous[n-1].Digest == snapshot.Digest {
		fmt.Fprintf(cmd.OutOrStdout(), "Document unchanged since snapshot %s\n", previous[n-1].ID)
	}
	return nil
}

func runListSnapshots(cmd *cobra.Command, args []string) error {
	snapshots, err := openStore()
	if err != nil {
		return err
	}
	infos, err := snapshots.List()
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(infos) == 0 {
		fmt.Fprintln(out, "No snapshots found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIMESTAMP\tAGE\tHOST\tOUTCOME\tPLATFORMS\tDEVICES\tDIGEST")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			info.ID,
			info.Timestamp.Format("2006-01-02 15:04:05"),
			humanize.Time(info.Timestamp),
			info.Host,
			info.Outcome,
			info.Platforms,
			info.Devices,
			shortDigest(info.Digest),
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\nTotal snapshots: %d\n", len(infos))
	return nil
}

func shortDigest(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	if digest == "" {
		return "-"
	}
	return digest
}

func runShowSnapshot(cmd *cobra.Command, args []string) error {
	snapshots, err := openStore()
	if err != nil {
		return err
	}
	snapshot, err := snapshots.Load(args[0])
	if err != nil {
		return err
	}
	return printDocument(cmd.OutOrStdout(), snapshot.Document, showFormat)
}

func runDiffSnapshots(cmd *cobra.Command, args []string) error {
	snapshots, err := openStore()
	if err != nil {
		return err
	}
	base, err := snapshots.Load(args[0])
	if err != nil {
		return err
	}

	var other clinfo.Document
	if len(args) == 1 || args[1] == "live" {
		enumerator, err := newEnumerator()
		if err != nil {
			return err
		}
		other = enumerator.Snapshot()
	} else {
		s, err := snapshots.Load(args[1])
		if err != nil {
			return err
		}
		other = s.Document
	}

	out := cmd.OutOrStdout()
	diff := clinfo.Diff(base.Document, other)
	if len(diff) == 0 {
		fmt.Fprintln(out, "No differences.")
		return nil
	}
	for _, line := range diff {
		fmt.Fprintln(out, line)
	}
	return fmt.Errorf("%d difference(s) found", len(diff))
}

func runSnapshotHistory(cmd *cobra.Command, args []string) error {
	entries, err := store.ReadHistory(snapshotDataDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No history recorded.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIMESTAMP\tOUTCOME\tPLATFORMS\tDEVICES\tSNAPSHOT\tERROR")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n",
			e.Timestamp.Format("2006-01-02 15:04:05"),
			e.Outcome, e.Platforms, e.Devices, e.SnapshotID, e.Error)
	}
	return w.Flush()
}

func runCleanSnapshots(cmd *cobra.Command, args []string) error {
	if keepLast == 0 && olderThanDays == 0 {
		return fmt.Errorf("must specify either --keep-last or --older-than")
	}

	snapshots, err := openStore()
	if err != nil {
		return err
	}
	infos, err := snapshots.List()
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}

	out := cmd.OutOrStdout()
	olderThan := time.Duration(olderThanDays) * 24 * time.Hour
	toDelete := store.SelectForDeletion(infos, keepLast, olderThan, time.Now())
	if len(toDelete) == 0 {
		fmt.Fprintln(out, "No snapshots match deletion criteria.")
		return nil
	}

	fmt.Fprintf(out, "Found %d snapshot(s) to delete:\n", len(toDelete))
	for _, info := range toDelete {
		fmt.Fprintf(out, "  - %s (%s)\n", info.ID, info.Timestamp.Format("2006-01-02 15:04:05"))
	}

	if !forceClean {
		fmt.Fprint(out, "\nProceed with deletion? [y/N]: ")
		response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		response = strings.TrimSpace(response)
		if response != "y" && response != "Y" {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	deleted, failed := 0, 0
	for _, info := range toDelete {
		if err := snapshots.Delete(info.ID); err != nil {
			slog.Error("Failed to delete snapshot", "id", info.ID, "error", err)
			failed++
			continue
		}
		slog.Info("Deleted snapshot", "id", info.ID)
		deleted++
	}

	fmt.Fprintf(out, "\nDeleted %d snapshot(s), %d failed.\n", deleted, failed)
	return nil
}
