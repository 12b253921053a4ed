package sim

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/arduck/internal/dynamo"
)

func TestSimSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Scene Suite")
}

func meanDistance(loop *Loop) float64 {
	cam := loop.CameraPosition()
	var sum float64
	for _, p := range loop.Registry().Pairs() {
		sum += p.Body.Position.Sub(cam).Len()
	}
	return sum / float64(loop.Registry().Len())
}

var _ = Describe("Duck drop scene", func() {
	var (
		f    *fixture
		loop *Loop
	)

	BeforeEach(func() {
		f = newFixture()
		var err error
		loop, err = f.bootstrap()
		Expect(err).NotTo(HaveOccurred())
	})

	Context("after bootstrap", func() {
		It("holds twenty pairs over the ground", func() {
			Expect(loop.Registry().Len()).To(Equal(20))
			Expect(loop.Scene().Meshes).To(HaveLen(20))
			Expect(loop.Ground().IsStatic()).To(BeTrue())
			for _, p := range loop.Registry().Pairs() {
				Expect(p.Body.Position.Y()).To(BeNumerically(">", loop.Ground().Position.Y()))
			}
		})

		It("is reproducible for a fixed seed", func() {
			other, err := newFixture().bootstrap()
			Expect(err).NotTo(HaveOccurred())
			for i := 0; i < 20; i++ {
				Expect(other.Registry().At(i).Body.Position).To(Equal(loop.Registry().At(i).Body.Position))
			}
		})
	})

	Context("left alone for ten seconds", func() {
		BeforeEach(func() {
			Expect(loop.Run(context.Background(), Immediate(600))).To(Succeed())
		})

		It("lets every ball come to rest on the ground", func() {
			rest := loop.Ground().Position.Y() + loop.Config().Balls.Radius
			for i, p := range loop.Registry().Pairs() {
				Expect(dynamo.IsFinite(p.Body.Position)).To(BeTrue())
				Expect(p.Body.Position.Y()).To(BeNumerically("~", rest, 0.005), "ball %d height", i)
				Expect(p.Body.Velocity.Len()).To(BeNumerically("<", 0.05), "ball %d speed", i)
			}
		})

		It("keeps them at rest", func() {
			Expect(loop.Run(context.Background(), Immediate(60))).To(Succeed())
			rest := loop.Ground().Position.Y() + loop.Config().Balls.Radius
			for i, p := range loop.Registry().Pairs() {
				Expect(p.Body.Position.Y()).To(BeNumerically("~", rest, 0.005), "ball %d height", i)
				Expect(p.Body.Velocity.Y()).To(BeNumerically("~", 0, 0.01), "ball %d hops", i)
			}
		})

		It("keeps meshes on their bodies", func() {
			for _, p := range loop.Registry().Pairs() {
				Expect(p.Mesh.Position).To(Equal(p.Body.Position))
				Expect(p.Mesh.Quaternion).To(Equal(p.Body.Quaternion))
			}
		})

		It("rolls the balls towards the camera while touching", func() {
			before := meanDistance(loop)
			f.touch.OnGrant()
			Expect(loop.Run(context.Background(), Immediate(120))).To(Succeed())
			Expect(meanDistance(loop)).To(BeNumerically("<", before-0.1))

			f.touch.OnTerminate()
			Expect(f.touch.Touching()).To(BeFalse())
		})
	})
})
