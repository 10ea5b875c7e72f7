// cmd/seedcatalog/main.go — Borra y recrea el catálogo con datos de demo.
// Uso: go run cmd/seedcatalog/main.go
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/RamsesGirala/machinery-ops/internal/config"
	"github.com/RamsesGirala/machinery-ops/internal/dto"
	"github.com/RamsesGirala/machinery-ops/internal/infra"
	"github.com/RamsesGirala/machinery-ops/internal/repository"
	"github.com/RamsesGirala/machinery-ops/internal/service"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		log.Fatalf("decimal inválido %q: %v", s, err)
	}
	return v
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}

	// Limpieza: sólo tablas de catálogo, hijos antes que padres.
	for _, table := range []string{"logistics_leg", "tax", "accessory", "machine_base"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("clear %s: %v", table, err)
		}
	}

	svc := service.NewCatalogoService(
		repository.NewMachineBaseRepository(db),
		repository.NewAccessoryRepository(db),
		repository.NewTaxRepository(db),
		repository.NewLogisticsLegRepository(db),
	)
	ctx := context.Background()

	maquinas := []dto.CrearMachineBaseRequest{
		{Nombre: "Excavadora 20T", Total: d("95000.00")},
		{Nombre: "Excavadora 35T", Total: d("165000.00")},
		{Nombre: "Retroexcavadora 4x4", Total: d("78000.00")},
		{Nombre: "Minicargadora Skid Steer", Total: d("52000.00")},
		{Nombre: "Cargadora Frontal 3m3", Total: d("110000.00")},
		{Nombre: "Motoniveladora 140H", Total: d("210000.00")},
		{Nombre: "Rodillo Compactador 12T", Total: d("68000.00")},
		{Nombre: "Grua Telescopica 35T", Total: d("175000.00")},
		{Nombre: "Autoelevador 3T", Total: d("22000.00")},
		{Nombre: "Generador 100 kVA", Total: d("22000.00")},
	}
	for _, m := range maquinas {
		if _, err := svc.CrearMaquina(ctx, m); err != nil {
			log.Fatalf("máquina %q: %v", m.Nombre, err)
		}
	}

	accesorios := []dto.CrearAccessoryRequest{
		{Nombre: "Kit de Mantenimiento (filtros + aceites)", Total: d("750.00")},
		{Nombre: "Baldes Excavadora 1.2m3", Total: d("1860.00")},
		{Nombre: "Martillo Hidráulico (acople)", Total: d("2460.00")},
		{Nombre: "Horquillas Skid Steer", Total: d("1120.00")},
		{Nombre: "Cucharón 4 en 1", Total: d("3200.00")},
		{Nombre: "Kit Hidráulico Auxiliar", Total: d("1980.00")},
		{Nombre: "Orugas de Goma (set)", Total: d("4100.00")},
		{Nombre: "Cabina de Protección ROPS", Total: d("2950.00")},
		{Nombre: "GPS / Nivelación (kit)", Total: d("5300.00")},
		{Nombre: "Cadenas de Izaje (set)", Total: d("890.00")},
		{Nombre: "Batería Heavy Duty", Total: d("430.00")},
		{Nombre: "Kit Herramientas", Total: d("610.00")},
	}
	for _, a := range accesorios {
		if _, err := svc.CrearAccesorio(ctx, a); err != nil {
			log.Fatalf("accesorio %q: %v", a.Nombre, err)
		}
	}

	impuestos := []dto.CrearTaxRequest{
		{Nombre: "IVA", Porcentaje: d("21.00"), SiempreIncluir: true},
		{Nombre: "Derechos de Importación", Porcentaje: d("14.00"), SiempreIncluir: true},
		{Nombre: "Tasa de Estadística", Porcentaje: d("3.00"), SiempreIncluir: true},
		{Nombre: "Percepción IVA", Porcentaje: d("20.00")},
		{Nombre: "Percepción Ganancias", Porcentaje: d("6.00")},
		{Nombre: "Ingresos Brutos", Porcentaje: d("3.50")},
		{Nombre: "Tasa Aduanera/Servicios", Porcentaje: d("1.00"), MontoMinimo: dp("250.00")},
	}
	for _, t := range impuestos {
		if _, err := svc.CrearImpuesto(ctx, t); err != nil {
			log.Fatalf("impuesto %q: %v", t.Nombre, err)
		}
	}

	tramos := []dto.CrearLogisticsLegRequest{
		{Desde: "Shanghai, CN", Hasta: "Valparaíso, CL", Tipo: "MARITIMO", Etapa: "HASTA_ADUANA", Total: d("4800.00")},
		{Desde: "Shenzhen, CN", Hasta: "San Antonio, CL", Tipo: "MARITIMO", Etapa: "HASTA_ADUANA", Total: d("5200.00")},
		{Desde: "Hong Kong, CN", Hasta: "Santiago, CL", Tipo: "AEREO", Etapa: "HASTA_ADUANA", Total: d("9800.00")},
		{Desde: "Santiago, CL", Hasta: "Los Andes, CL", Tipo: "TERRESTRE", Etapa: "HASTA_ADUANA", Total: d("210.00")},
		{Desde: "Valparaíso, CL", Hasta: "Santiago, CL", Tipo: "TERRESTRE", Etapa: "POST_ADUANA", Total: d("420.00")},
		{Desde: "Santiago, CL", Hasta: "Mendoza, AR", Tipo: "TERRESTRE", Etapa: "POST_ADUANA", Total: d("950.00")},
		{Desde: "Uspallata, AR", Hasta: "Mendoza, AR", Tipo: "TERRESTRE", Etapa: "POST_ADUANA", Total: d("180.00")},
		{Desde: "Buenos Aires, AR", Hasta: "Mendoza, AR", Tipo: "TERRESTRE", Etapa: "POST_ADUANA", Total: d("1350.00")},
	}
	for _, l := range tramos {
		if _, err := svc.CrearTramo(ctx, l); err != nil {
			log.Fatalf("tramo %s → %s: %v", l.Desde, l.Hasta, err)
		}
	}

	fmt.Printf("✅ Catálogo recreado: %d máquinas, %d accesorios, %d impuestos, %d tramos\n",
		len(maquinas), len(accesorios), len(impuestos), len(tramos))
}
