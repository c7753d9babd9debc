package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	database "github.com/rpoliveira/controlefin/db"
	"github.com/rpoliveira/controlefin/internal/ledger/application"
	"github.com/rpoliveira/controlefin/internal/ledger/infrastructure"
)

// One-shot maintenance pass over goal balances. With no flags it runs both the
// reconciliation and the orphan sweep and prints the combined report.
func main() {
	reconcile := flag.Bool("reconcile", false, "recompute drifted goal balances")
	orphans := flag.Bool("orphans", false, "detach expenses pointing at deleted goals")
	flag.Parse()

	runAll := !*reconcile && !*orphans

	dbService, err := database.NewDBService()
	if err != nil {
		log.Fatalf("Could not initialize database: %v", err)
	}
	defer dbService.Close()

	goalRepo := infrastructure.NewGoalRepository(dbService.DB)
	expenseRepo := infrastructure.NewExpenseRepository(dbService.DB)
	reconciler := application.NewReconciler(goalRepo, expenseRepo)

	report := map[string]interface{}{}

	if runAll || *orphans {
		orphanReport, err := reconciler.FindOrphanExpenses()
		if err != nil {
			log.Fatalf("Orphan detection failed: %v", err)
		}
		report["orphans"] = orphanReport
	}

	if runAll || *reconcile {
		drifts, err := reconciler.ReconcileAll()
		if err != nil {
			log.Fatalf("Reconciliation failed: %v", err)
		}
		report["repaired"] = len(drifts)
		report["drifts"] = drifts
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		log.Fatalf("Could not encode report: %v", err)
	}
}
