package synth

import (
	"fmt"
	"math"
	"math/rand/v2"

	"haloscope/domain/halo"

	"gonum.org/v1/gonum/stat/distuv"
)

// Catalogs is a generated pair of halo catalogs sharing the same subhalos.
// The disk catalog is the dmo catalog after tidal disruption by a central disk.
type Catalogs struct {
	DMO  *halo.Table
	Disk *halo.Table
}

// Tables returns the catalogs in dmo, disk order
func (c *Catalogs) Tables() []*halo.Table {
	return []*halo.Table{c.DMO, c.Disk}
}

type Config struct {
	Hosts           int
	SubhalosPerHost int
	Seed            int64

	// Radius of the host's subhalo population in kpc
	OuterRadius float64

	// Subhalos with a pericenter inside DiskRadius are disrupted with
	// probability DisruptionRate in the disk catalog
	DiskRadius     float64
	DisruptionRate float64
}

func DefaultConfig() Config {
	return Config{
		Hosts:           2,
		SubhalosPerHost: 500,
		Seed:            42,
		OuterRadius:     300,
		DiskRadius:      30,
		DisruptionRate:  0.7,
	}
}

// Hubble time in Gyr; subhalos that never fell in carry this value
const ageOfUniverse = 13.8

func Generate(cfg Config) (*Catalogs, error) {
	if cfg.Hosts <= 0 {
		return nil, fmt.Errorf("hosts must be > 0")
	}
	if cfg.SubhalosPerHost < 0 {
		return nil, fmt.Errorf("subhalos per host must be >= 0")
	}
	if cfg.DisruptionRate < 0 || cfg.DisruptionRate > 1 {
		return nil, fmt.Errorf("disruption rate must be within [0, 1]")
	}

	src := rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)*0x9e3779b97f4a7c15+1)
	rng := rand.New(src)

	massFunction := distuv.Pareto{Xm: 1e7, Alpha: 0.9, Src: src}
	velocity := distuv.Normal{Mu: 0, Sigma: 120, Src: src}
	scatter := distuv.Normal{Mu: 0, Sigma: 0.05, Src: src}
	concentration := distuv.LogNormal{Mu: math.Log(12), Sigma: 0.3, Src: src}
	infall := distuv.Uniform{Min: 0, Max: ageOfUniverse, Src: src}

	dmo, err := halo.NewTable(halo.CatalogDMO, halo.CanonicalColumns, nil)
	if err != nil {
		return nil, err
	}
	disk, err := halo.NewTable(halo.CatalogDisk, halo.CanonicalColumns, nil)
	if err != nil {
		return nil, err
	}

	nextID := 1
	for h := 1; h <= cfg.Hosts; h++ {
		hostMass := 1e12 * (0.8 + 0.4*rng.Float64())
		host := subhalo{
			hostID: h, id: nextID, mvir: hostMass,
			vmax: vmaxFromMass(hostMass), scaleVpeak: 1, infall: ageOfUniverse,
		}
		host.vpeak = host.vmax
		host.rvir = rvirFromMass(hostMass)
		host.rs = host.rvir / concentration.Rand()
		nextID++

		if err := appendBoth(dmo, disk, host); err != nil {
			return nil, err
		}

		for s := 0; s < cfg.SubhalosPerHost; s++ {
			mvir := math.Min(massFunction.Rand(), 0.05*hostMass)
			sub := subhalo{hostID: h, id: nextID, mvir: mvir}
			nextID++

			sub.vmax = vmaxFromMass(mvir) * math.Pow(10, scatter.Rand())
			sub.vpeak = sub.vmax * (1 + math.Abs(scatter.Rand())*4)
			sub.scaleVpeak = 0.2 + 0.8*rng.Float64()
			sub.rvir = rvirFromMass(mvir)
			sub.rs = sub.rvir / concentration.Rand()

			r := cfg.OuterRadius * math.Cbrt(rng.Float64())
			ux, uy, uz := unitVector(rng)
			sub.x, sub.y, sub.z = r*ux, r*uy, r*uz
			sub.dist = r
			sub.vx, sub.vy, sub.vz = velocity.Rand(), velocity.Rand(), velocity.Rand()
			sub.vr = sub.vx*ux + sub.vy*uy + sub.vz*uz
			speed2 := sub.vx*sub.vx + sub.vy*sub.vy + sub.vz*sub.vz
			sub.vtan = math.Sqrt(math.Max(speed2-sub.vr*sub.vr, 0))
			sub.peri = r * (0.05 + 0.95*rng.Float64())

			// a tenth of the population is still on first approach
			if rng.Float64() < 0.1 {
				sub.infall = ageOfUniverse
			} else {
				sub.infall = infall.Rand()
			}

			if err := dmo.AppendRow(sub.row(dmo.Len())); err != nil {
				return nil, err
			}
			disrupted := sub.peri < cfg.DiskRadius && rng.Float64() < cfg.DisruptionRate
			if !disrupted {
				if err := disk.AppendRow(sub.row(disk.Len())); err != nil {
					return nil, err
				}
			}
		}
	}

	return &Catalogs{DMO: dmo, Disk: disk}, nil
}

type subhalo struct {
	hostID, id              int
	mvir, rs, rvir, vmax    float64
	vx, vy, vz, x, y, z     float64
	vpeak, scaleVpeak, dist float64
	infall, peri, vr, vtan  float64
}

// row renders the subhalo in halo.CanonicalColumns order
func (s subhalo) row(index int) []float64 {
	return []float64{
		float64(index), float64(s.hostID), float64(s.id), s.mvir, s.rs, s.rvir, s.vmax,
		s.vx, s.vy, s.vz, s.x, s.y, s.z, s.vpeak, s.scaleVpeak, s.dist, s.infall, s.peri,
		s.vr, s.vtan,
	}
}

func appendBoth(dmo, disk *halo.Table, s subhalo) error {
	if err := dmo.AppendRow(s.row(dmo.Len())); err != nil {
		return err
	}
	return disk.AppendRow(s.row(disk.Len()))
}

// vmaxFromMass follows Vmax ∝ M^(1/3), normalised to ~180 km/s at 1e12 M_sun
func vmaxFromMass(m float64) float64 {
	return math.Pow(10, -1.7+0.33*math.Log10(m))
}

// rvirFromMass gives the virial radius in kpc, ~260 kpc at 1e12 M_sun
func rvirFromMass(m float64) float64 {
	return 0.026 * math.Cbrt(m)
}

func unitVector(rng *rand.Rand) (x, y, z float64) {
	cosTheta := 2*rng.Float64() - 1
	sinTheta := math.Sqrt(1 - cosTheta*cosTheta)
	phi := 2 * math.Pi * rng.Float64()
	return sinTheta * math.Cos(phi), sinTheta * math.Sin(phi), cosTheta
}
